package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mealselector/internal/api"
	"mealselector/internal/auth"
)

// stubGateway counts calls and returns canned results.
type stubGateway struct {
	loginCalls    int
	registerCalls int
	profileCalls  int
	chatCalls     int

	session   *api.Session
	chatReply string
	err       error
}

func (s *stubGateway) Login(ctx context.Context, email, password string) (*api.Session, error) {
	s.loginCalls++
	return s.session, s.err
}

func (s *stubGateway) Register(ctx context.Context, name, email, password string) error {
	s.registerCalls++
	return s.err
}

func (s *stubGateway) SaveProfile(ctx context.Context, userID string, p api.Profile) error {
	s.profileCalls++
	return s.err
}

func (s *stubGateway) Chat(ctx context.Context, userID, message string) (string, error) {
	s.chatCalls++
	return s.chatReply, s.err
}

// runCmd executes a command tree synchronously and collects the messages.
// Used only for commands known not to block.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func pressEnter[M interface {
	Update(tea.Msg) (M, tea.Cmd)
}](m M) (M, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

// =============================================================================
// LOGIN PAGE
// =============================================================================

func TestLoginPage_MalformedEmailShortCircuits(t *testing.T) {
	t.Parallel()

	for _, email := range []string{"", "ayse", "ayse@example", "@example.com", "ayse@"} {
		gw := &stubGateway{}
		m := NewLoginPage(gw, nil, DefaultStyles())
		m.email.SetValue(email)
		m.password.SetValue("secret1")

		m, cmd := pressEnter(m)

		if cmd != nil {
			t.Errorf("email %q: expected no command, got one", email)
		}
		if m.Status() != StatusError {
			t.Errorf("email %q: status = %v, want StatusError", email, m.Status())
		}
		if gw.loginCalls != 0 {
			t.Errorf("email %q: %d network calls issued, want 0", email, gw.loginCalls)
		}
	}
}

func TestLoginPage_EmptyPasswordShortCircuits(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	m := NewLoginPage(gw, nil, DefaultStyles())
	m.email.SetValue("ayse@example.com")

	m, cmd := pressEnter(m)

	if cmd != nil {
		t.Error("expected no command for empty password")
	}
	if m.Status() != StatusError || m.errMsg != emptyPasswordText {
		t.Errorf("status = %v, errMsg = %q", m.Status(), m.errMsg)
	}
	if gw.loginCalls != 0 {
		t.Errorf("%d network calls issued, want 0", gw.loginCalls)
	}
}

func TestLoginPage_SuccessEmitsIntentAndPersistsToken(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{session: &api.Session{UserID: "u1", Username: "ayse", Token: "tok-9"}}
	tokens := auth.NewTokenStore(t.TempDir())
	m := NewLoginPage(gw, tokens, DefaultStyles())
	m.email.SetValue("ayse@example.com")
	m.password.SetValue("secret1")

	m, cmd := pressEnter(m)
	if m.Status() != StatusPending {
		t.Fatalf("status = %v, want StatusPending", m.Status())
	}

	msgs := runCmd(cmd)
	result, ok := findMsg[loginResultMsg](msgs)
	if !ok {
		t.Fatal("expected a loginResultMsg from the submit command")
	}
	if gw.loginCalls != 1 {
		t.Errorf("loginCalls = %d, want 1", gw.loginCalls)
	}

	m, cmd = m.Update(result)
	if m.Status() != StatusSaved {
		t.Errorf("status = %v, want StatusSaved", m.Status())
	}

	intent, ok := findMsg[LoginSucceededMsg](runCmd(cmd))
	if !ok {
		t.Fatal("expected a LoginSucceededMsg intent")
	}
	if intent.User.ID != "u1" || intent.User.Username != "ayse" {
		t.Errorf("intent user = %+v", intent.User)
	}

	tok, err := tokens.Load()
	if err != nil || tok == nil {
		t.Fatalf("token not persisted: tok=%v err=%v", tok, err)
	}
	if tok.Token != "tok-9" {
		t.Errorf("persisted token = %q, want %q", tok.Token, "tok-9")
	}
}

func TestLoginPage_ServerFailureShowsDetail(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	m := NewLoginPage(gw, nil, DefaultStyles())

	m, _ = m.Update(loginResultMsg{err: &api.RequestError{Status: 401, Message: "Wrong password."}})
	if m.Status() != StatusError {
		t.Errorf("status = %v, want StatusError", m.Status())
	}
	if m.errMsg != "Wrong password." {
		t.Errorf("errMsg = %q, want the server detail", m.errMsg)
	}
}

func TestLoginPage_TransportFailureUsesGenericText(t *testing.T) {
	t.Parallel()

	m := NewLoginPage(&stubGateway{}, nil, DefaultStyles())

	m, _ = m.Update(loginResultMsg{err: errors.New("dial tcp: connection refused")})
	if m.errMsg != loginFailedText {
		t.Errorf("errMsg = %q, want the generic phrase", m.errMsg)
	}
}

func TestLoginPage_SecondSubmitWhilePendingIsNoop(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{session: &api.Session{UserID: "u1"}}
	m := NewLoginPage(gw, nil, DefaultStyles())
	m.email.SetValue("ayse@example.com")
	m.password.SetValue("secret1")

	m, _ = pressEnter(m)
	_, cmd := pressEnter(m)
	if cmd != nil {
		t.Error("submit while pending must be a no-op")
	}
}

// =============================================================================
// REGISTER PAGE
// =============================================================================

func TestRegisterPage_ValidationOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		email    string
		password string
		confirm  string
		wantMsg  string
	}{
		{"email checked first", "not-an-email", "secret1", "other", invalidEmailText},
		{"mismatch beats length", "a@b.co", "longenough1", "longenough2", passwordMismatchText},
		{"short but matching still rejected", "a@b.co", "abc", "abc", passwordTooShortText},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &stubGateway{}
			m := NewRegisterPage(gw, DefaultStyles())
			m.inputs[regFieldName].SetValue("Ayse")
			m.inputs[regFieldEmail].SetValue(tc.email)
			m.inputs[regFieldPassword].SetValue(tc.password)
			m.inputs[regFieldConfirm].SetValue(tc.confirm)

			m, cmd := pressEnter(m)

			if cmd != nil {
				t.Error("expected no command after a validation failure")
			}
			if m.errMsg != tc.wantMsg {
				t.Errorf("errMsg = %q, want %q", m.errMsg, tc.wantMsg)
			}
			if gw.registerCalls != 0 {
				t.Errorf("%d network calls issued, want 0", gw.registerCalls)
			}
		})
	}
}

func TestRegisterPage_SuccessClearsFormAndStays(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	m := NewRegisterPage(gw, DefaultStyles())
	m.inputs[regFieldName].SetValue("Ayse")
	m.inputs[regFieldEmail].SetValue("ayse@example.com")
	m.inputs[regFieldPassword].SetValue("secret1")
	m.inputs[regFieldConfirm].SetValue("secret1")

	m, cmd := pressEnter(m)
	if m.Status() != StatusPending {
		t.Fatalf("status = %v, want StatusPending", m.Status())
	}
	msgs := runCmd(cmd)
	result, ok := findMsg[registerResultMsg](msgs)
	if !ok {
		t.Fatal("expected a registerResultMsg")
	}
	if gw.registerCalls != 1 {
		t.Errorf("registerCalls = %d, want 1", gw.registerCalls)
	}

	m, cmd = m.Update(result)
	if m.Status() != StatusSaved {
		t.Errorf("status = %v, want StatusSaved", m.Status())
	}
	// No automatic navigation: going back to login is the user's call.
	if cmd != nil {
		t.Error("success must not emit a navigation command")
	}
	for i := range m.inputs {
		if m.inputs[i].Value() != "" {
			t.Errorf("field %d not cleared: %q", i, m.inputs[i].Value())
		}
	}
}

func TestRegisterPage_EscSwitchesToLogin(t *testing.T) {
	t.Parallel()

	m := NewRegisterPage(&stubGateway{}, DefaultStyles())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if _, ok := findMsg[SwitchToLoginMsg](runCmd(cmd)); !ok {
		t.Error("expected a SwitchToLoginMsg intent")
	}
}

func TestRegisterPage_ViewShowsError(t *testing.T) {
	t.Parallel()

	m := NewRegisterPage(&stubGateway{}, DefaultStyles())
	m.inputs[regFieldEmail].SetValue("bad")
	m, _ = pressEnter(m)

	if !strings.Contains(m.View(), invalidEmailText) {
		t.Error("validation error should be rendered inline")
	}
}
