package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/session"
	"github.com/robalobadob/hangman/internal/store"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		ClientOrigin:   "http://localhost:5173",
		JWTSecret:      "test-secret",
		CookieName:     "hangman_session",
		SessionTTL:     time.Hour,
		DailySalt:      "salt",
		MaxUploadBytes: 1024,
	}
}

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore(time.Hour)
	s := New(st, testConfig())
	s.now = func() time.Time { return testNow }
	s.pick = func(int) int { return 0 }
	return s, st
}

// client replays the session token of the first response on later requests.
type client struct {
	t     *testing.T
	s     *Server
	token string
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.s.Router().ServeHTTP(rec, req)
	if tok := rec.Header().Get(tokenHeader); tok != "" {
		c.token = tok
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}
	rec := c.do(http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Fatalf("expected json content type, got %q", got)
	}
	if c.token != "" {
		t.Fatalf("expected no session for /health")
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	s, _ := newTestServer(t)
	rec := (&client{t: t, s: s}).do(http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["error"] != "not_found" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestRoundBeforeWords(t *testing.T) {
	s, st := newTestServer(t)
	c := &client{t: t, s: s}

	rec := c.do(http.MethodGet, "/round", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	v := decode[session.View](t, rec)
	if v.State != game.StateNotStarted || v.Message != session.MsgSelectFile {
		t.Fatalf("unexpected view %+v", v)
	}
	if c.token == "" || st.Len() != 1 {
		t.Fatalf("expected a session to be minted")
	}
	if cookie := rec.Result().Cookies(); len(cookie) != 1 || cookie[0].Name != "hangman_session" {
		t.Fatalf("expected session cookie, got %v", cookie)
	}

	rec = c.do(http.MethodPost, "/round/new", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	body := decode[errBody](t, rec)
	if body.Error != "no_words" || body.Message != session.MsgLoadFirst {
		t.Fatalf("unexpected body %+v", body)
	}
	if st.Len() != 1 {
		t.Fatalf("expected token to be reused, got %d sessions", st.Len())
	}
}

func TestPlayGopher(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}

	rec := c.do(http.MethodPost, "/words", "gopher\n\n  \n")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	v := decode[session.View](t, rec)
	if v.Masked != "_ _ _ _ _ _" || v.WordCount != 1 || v.Word != "" {
		t.Fatalf("unexpected view %+v", v)
	}

	rec = c.do(http.MethodPost, "/round/guess", `{"letter":"z"}`)
	res := decode[guessRes](t, rec)
	if res.Outcome != game.OutcomeWrong || res.View.WrongCount != 1 || res.View.Message != session.MsgWrongLetter {
		t.Fatalf("unexpected response %+v", res)
	}

	rec = c.do(http.MethodPost, "/round/guess", `{"letter":"g"}`)
	res = decode[guessRes](t, rec)
	if res.Outcome != game.OutcomeHit || res.View.Masked != "G _ _ _ _ _" {
		t.Fatalf("unexpected response %+v", res)
	}

	rec = c.do(http.MethodPost, "/round/guess", `{"letter":"G"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", rec.Code)
	}
	body := decode[errBody](t, rec)
	if body.Error != "duplicate_guess" || body.View == nil || body.View.WrongCount != 1 {
		t.Fatalf("unexpected body %+v", body)
	}

	for _, l := range []string{"o", "p", "h", "e", "r"} {
		rec = c.do(http.MethodPost, "/round/guess", `{"letter":"`+l+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("guess %q: expected 200, got %d", l, rec.Code)
		}
	}
	res = decode[guessRes](t, rec)
	if res.View.State != game.StateWon || res.View.Message != session.MsgWin || res.View.Word != "GOPHER" {
		t.Fatalf("expected won view, got %+v", res.View)
	}

	rec = c.do(http.MethodPost, "/round/guess", `{"letter":"x"}`)
	if rec.Code != http.StatusConflict || decode[errBody](t, rec).Error != "round_over" {
		t.Fatalf("expected round_over after win, got %d", rec.Code)
	}
}

func TestGuessValidationStatus(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}
	c.do(http.MethodPost, "/words", "cat\n")

	tests := []struct {
		body   string
		status int
		code   string
	}{
		{body: `{"letter":"  "}`, status: http.StatusBadRequest, code: "empty_input"},
		{body: `{"letter":"4"}`, status: http.StatusBadRequest, code: "non_letter"},
		{body: `not json`, status: http.StatusBadRequest, code: "bad_json"},
	}
	for _, tt := range tests {
		rec := c.do(http.MethodPost, "/round/guess", tt.body)
		if rec.Code != tt.status {
			t.Fatalf("body %s: expected %d, got %d", tt.body, tt.status, rec.Code)
		}
		if got := decode[errBody](t, rec).Error; got != tt.code {
			t.Fatalf("body %s: expected %q, got %q", tt.body, tt.code, got)
		}
	}
}

func TestEmptyWordFile(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}
	rec := c.do(http.MethodPost, "/words", "\n   \n\t\n")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decode[errBody](t, rec)
	if body.Error != "empty_list" || body.Message != session.MsgInvalidFile {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestWordFileTooLarge(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}
	rec := c.do(http.MethodPost, "/words", strings.Repeat("word\n", 500))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

// loseRound guesses letters absent from every word of the daily test list
// until the round is lost, and returns the revealed word.
func loseRound(t *testing.T, c *client) string {
	t.Helper()
	var res guessRes
	for _, l := range []string{"g", "j", "k", "m", "n", "q"} {
		rec := c.do(http.MethodPost, "/round/guess", `{"letter":"`+l+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("guess %q: expected 200, got %d", l, rec.Code)
		}
		res = decode[guessRes](t, rec)
	}
	if res.View.State != game.StateLost {
		t.Fatalf("expected lost round, got %s", res.View.State)
	}
	return res.View.Word
}

func TestDailyRoundIsStable(t *testing.T) {
	s, _ := newTestServer(t)
	lines := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}
	list := strings.Join(lines, "\n")

	wordList, err := game.LoadWords(lines)
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	want := game.StartRound(wordList, daily.Picker(testNow, "salt")).Word()

	for i := 0; i < 3; i++ {
		c := &client{t: t, s: s}
		c.do(http.MethodPost, "/words", list)
		rec := c.do(http.MethodPost, "/round/new", `{"mode":"daily"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := loseRound(t, c); got != want {
			t.Fatalf("session %d: expected daily word %q, got %q", i, want, got)
		}
	}

	c := &client{t: t, s: s}
	c.do(http.MethodPost, "/words", list)
	if rec := c.do(http.MethodPost, "/round/new", `{"mode":"weekly"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown mode, got %d", rec.Code)
	}
}

func TestActivePlayerKeepsSessionPastTTL(t *testing.T) {
	s, st := newTestServer(t)
	now := testNow
	s.now = func() time.Time { return now }
	c := &client{t: t, s: s}

	c.do(http.MethodPost, "/words", "cat\n")
	if rec := c.do(http.MethodPost, "/round/guess", `{"letter":"c"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// TTL is 1h; keep playing every 40 minutes for 2 hours.
	for i, l := range []string{"x", "y", "z"} {
		now = now.Add(40 * time.Minute)
		rec := c.do(http.MethodPost, "/round/guess", `{"letter":"`+l+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("guess %d (%q): expected 200, got %d: %s", i+1, l, rec.Code, rec.Body.String())
		}
		res := decode[guessRes](t, rec)
		if res.View.WrongCount != i+1 || len(res.View.Guessed) != i+2 {
			t.Fatalf("guess %d: expected round to carry over, got %+v", i+1, res.View)
		}
	}
	if st.Len() != 1 {
		t.Fatalf("expected a single session, got %d", st.Len())
	}

	v := decode[session.View](t, c.do(http.MethodGet, "/round", ""))
	if v.State != game.StateInProgress || v.Masked != "C _ _" {
		t.Fatalf("expected round in progress, got %+v", v)
	}
}

func TestFreshTokenNotReissued(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}
	c.do(http.MethodPost, "/words", "cat\n")

	rec := c.do(http.MethodGet, "/round", "")
	if got := rec.Header().Get(tokenHeader); got != "" {
		t.Fatalf("expected no new token for a fresh one, got %q", got)
	}
}

func TestDefaultWordsWithoutInit(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}
	// words.Init is never called in this package's tests, so the default list is empty.
	if rec := c.do(http.MethodPost, "/words/default", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestInvalidTokenMintsNewSession(t *testing.T) {
	s, st := newTestServer(t)
	c := &client{t: t, s: s, token: "garbage"}
	c.do(http.MethodGet, "/round", "")
	if c.token == "garbage" || st.Len() != 1 {
		t.Fatalf("expected a new session for an invalid token")
	}

	other := New(st, config.Config{JWTSecret: "other", CookieName: "hangman_session", SessionTTL: time.Hour, MaxUploadBytes: 1024})
	other.now = s.now
	forged, _, err := other.signToken("someone-else", testNow)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.parseClaims(forged); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestExpiredToken(t *testing.T) {
	s, _ := newTestServer(t)
	tok, _, err := s.signToken("abc", testNow.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.parseClaims(tok); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
	tok, _, _ = s.signToken("abc", testNow)
	if claims, err := s.parseClaims(tok); err != nil || claims.Subject != "abc" {
		t.Fatalf("expected abc, got %+v (%v)", claims, err)
	}
}

func TestCookieSession(t *testing.T) {
	s, st := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/words", strings.NewReader("cat\n")))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected a cookie, got %v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/round", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	v := decode[session.View](t, rec)
	if v.State != game.StateInProgress || v.WordCount != 1 {
		t.Fatalf("expected cookie to resume the session, got %+v", v)
	}
	if st.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", st.Len())
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/round/guess", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected origin %q", got)
	}
}
