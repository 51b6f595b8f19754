package auth

import "testing"

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("admin"); !ok || r != RoleAdmin {
		t.Errorf("ParseRole(admin) = %v, %v", r, ok)
	}
	if r, ok := ParseRole("student"); !ok || r != RoleStudent {
		t.Errorf("ParseRole(student) = %v, %v", r, ok)
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Error("ParseRole accepted an unknown role")
	}
	if _, ok := ParseRole(""); ok {
		t.Error("ParseRole accepted an empty role")
	}
}

func TestRoleCapabilities(t *testing.T) {
	if !RoleAdmin.Can(CapManageContent) {
		t.Error("admin should manage content")
	}
	if !RoleAdmin.Can(CapViewAllAttempts) {
		t.Error("admin should view all attempts")
	}
	if RoleAdmin.Can(CapTakeQuiz) {
		t.Error("admin should not take quizzes")
	}
	if !RoleStudent.Can(CapTakeQuiz) {
		t.Error("student should take quizzes")
	}
	if RoleStudent.Can(CapManageContent) {
		t.Error("student should not manage content")
	}
	if RoleStudent.Can(CapViewAllAttempts) {
		t.Error("student should not view other students' attempts")
	}

	var unknown Role = "ghost"
	if unknown.Can(CapTakeQuiz) {
		t.Error("unknown role should hold no capabilities")
	}
}
