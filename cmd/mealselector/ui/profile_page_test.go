package ui

import (
	"testing"

	"mealselector/internal/api"
)

func newProfileForTest(gw *stubGateway) ProfilePageModel {
	m := NewProfilePage(gw, DefaultStyles())
	m.SetUser(User{ID: "u1", Username: "ayse"})
	return m
}

func TestProfilePage_SubmitSendsTypedFields(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	m := newProfileForTest(gw)
	m.inputs[profFieldDiets].SetValue("vegan")
	m.inputs[profFieldAllergens].SetValue("peanuts")
	m.inputs[profFieldFoods].SetValue("pizza")

	m, cmd := pressEnter(m)

	if m.Status() != StatusPending {
		t.Fatalf("status = %v, want StatusPending", m.Status())
	}

	result, ok := findMsg[profileResultMsg](runCmd(cmd))
	if !ok {
		t.Fatal("expected a profileResultMsg")
	}
	if result.err != nil {
		t.Errorf("unexpected error: %v", result.err)
	}
	if gw.profileCalls != 1 {
		t.Errorf("profileCalls = %d, want 1", gw.profileCalls)
	}
}

func TestProfilePage_SuccessSchedulesSingleTransition(t *testing.T) {
	t.Parallel()

	m := newProfileForTest(&stubGateway{})
	m, _ = pressEnter(m)

	m, cmd := m.Update(profileResultMsg{})
	if m.Status() != StatusSaved {
		t.Errorf("status = %v, want StatusSaved", m.Status())
	}
	if cmd == nil {
		t.Fatal("first success should schedule the transition")
	}

	// A duplicate result must not schedule a second transition.
	m, cmd = m.Update(profileResultMsg{})
	if cmd != nil {
		t.Error("second success scheduled another transition")
	}

	// Nor may a re-submit slip in during the saved window.
	_, cmd = pressEnter(m)
	if cmd != nil {
		t.Error("submit during the saved window must be a no-op")
	}
}

func TestProfilePage_FailureStaysOnPage(t *testing.T) {
	t.Parallel()

	m := newProfileForTest(&stubGateway{})
	m, _ = pressEnter(m)

	m, cmd := m.Update(profileResultMsg{err: &api.RequestError{Status: 500, Message: "Could not save."}})

	if cmd != nil {
		t.Error("a failed save must not schedule a transition")
	}
	if m.Status() != StatusError {
		t.Errorf("status = %v, want StatusError", m.Status())
	}
	if m.errMsg != "Could not save." {
		t.Errorf("errMsg = %q, want the server detail", m.errMsg)
	}
}

func TestProfilePage_SubmitWhilePendingIsNoop(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	m := newProfileForTest(gw)
	m, _ = pressEnter(m)

	_, cmd := pressEnter(m)
	if cmd != nil {
		t.Error("submit while pending must be a no-op")
	}
}

func TestProfilePage_ResetStatusClearsGuardKeepsFields(t *testing.T) {
	t.Parallel()

	m := newProfileForTest(&stubGateway{})
	m.inputs[profFieldDiets].SetValue("vegan")
	m, _ = pressEnter(m)
	m, _ = m.Update(profileResultMsg{})

	m.ResetStatus()

	if m.Status() != StatusIdle {
		t.Errorf("status = %v, want StatusIdle", m.Status())
	}
	if m.inputs[profFieldDiets].Value() != "vegan" {
		t.Error("field values should survive a status reset")
	}

	// After the reset a fresh submit is allowed again.
	_, cmd := pressEnter(m)
	if cmd == nil {
		t.Error("submit after reset should issue the save")
	}
}
