package form

import (
	"errors"
	"reflect"
	"testing"
)

func testSchema() Schema {
	return Schema{
		{Name: "firstName", Kind: Text},
		{Name: "cprCertified", Kind: Choice},
		{Name: "inPersonLaborSupport", Kind: Flag},
		{Name: "careTypes", Kind: Set},
		{Name: "headshotFile", Kind: File},
		{Name: "insuranceFiles", Kind: Files, MaxFiles: 2},
	}
}

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore(testSchema())

	if got := s.Text("firstName"); got != "" {
		t.Errorf("Expected empty firstName, got %q", got)
	}
	if _, ok := s.Choice("cprCertified"); ok {
		t.Error("Expected cprCertified to be unset")
	}
	if _, ok := s.Flag("inPersonLaborSupport"); ok {
		t.Error("Expected inPersonLaborSupport to be unset")
	}
	if got := s.Selected("careTypes"); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil careTypes, got %#v", got)
	}
	if s.File("headshotFile") != nil {
		t.Error("Expected no headshot")
	}
	if got := s.Files("insuranceFiles"); got == nil || len(got) != 0 {
		t.Errorf("Expected empty insuranceFiles, got %#v", got)
	}
}

func TestSet_ClearsFieldError(t *testing.T) {
	s := NewStore(testSchema())
	s.ReplaceErrors(map[string]string{
		"firstName":    "First name is required",
		"cprCertified": "Please select an option",
	})

	if err := s.SetText("firstName", "Ada"); err != nil {
		t.Fatalf("SetText failed: %v", err)
	}

	if s.Error("firstName") != "" {
		t.Errorf("Expected firstName error cleared, got %q", s.Error("firstName"))
	}
	if s.Error("cprCertified") == "" {
		t.Error("Expected cprCertified error to remain")
	}
}

func TestSet_RejectsUnknownAndMismatched(t *testing.T) {
	s := NewStore(testSchema())

	if err := s.Set("nickname", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
	if err := s.Set("careTypes", "Postpartum"); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("Expected ErrKindMismatch, got %v", err)
	}
	if err := s.SetChoice("firstName", "yes"); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("Expected ErrKindMismatch for SetChoice on text, got %v", err)
	}
}

func TestToggle_PreservesOrder(t *testing.T) {
	s := NewStore(testSchema())
	for _, item := range []string{"Postpartum", "Abortion", "IVF Support"} {
		if err := s.Toggle("careTypes", item); err != nil {
			t.Fatalf("Toggle failed: %v", err)
		}
	}
	if err := s.Toggle("careTypes", "Abortion"); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	want := []string{"Postpartum", "IVF Support"}
	if got := s.Selected("careTypes"); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestAppendAndRemoveFile(t *testing.T) {
	s := NewStore(testSchema())
	a := Attachment{Name: "a.pdf", Encoded: "YQ==", ContentType: "application/pdf"}
	b := Attachment{Name: "b.pdf", Encoded: "Yg==", ContentType: "application/pdf"}
	c := Attachment{Name: "c.pdf", Encoded: "Yw==", ContentType: "application/pdf"}

	if err := s.AppendFile("insuranceFiles", a); err != nil {
		t.Fatalf("AppendFile failed: %v", err)
	}
	if err := s.AppendFile("insuranceFiles", b); err != nil {
		t.Fatalf("AppendFile failed: %v", err)
	}
	if err := s.AppendFile("insuranceFiles", c); !errors.Is(err, ErrTooManyFiles) {
		t.Errorf("Expected ErrTooManyFiles at cap, got %v", err)
	}

	if err := s.RemoveFile("insuranceFiles", 0); err != nil {
		t.Fatalf("RemoveFile failed: %v", err)
	}
	got := s.Files("insuranceFiles")
	if len(got) != 1 || got[0].Name != "b.pdf" {
		t.Errorf("Expected only b.pdf left, got %+v", got)
	}
	if err := s.RemoveFile("insuranceFiles", 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestGetterReturnsCopies(t *testing.T) {
	s := NewStore(testSchema())
	_ = s.Toggle("careTypes", "Postpartum")
	_ = s.AttachFile("headshotFile", Attachment{Name: "me.png", Encoded: "eA=="})

	sel := s.Selected("careTypes")
	sel[0] = "mutated"
	f := s.File("headshotFile")
	f.Name = "mutated.png"

	if s.Selected("careTypes")[0] != "Postpartum" {
		t.Error("Selected leaked internal slice")
	}
	if s.File("headshotFile").Name != "me.png" {
		t.Error("File leaked internal pointer")
	}
}

func TestClearEncoded(t *testing.T) {
	s := NewStore(testSchema())
	if s.ClearEncoded("headshotFile") {
		t.Error("Expected nothing to clear on empty field")
	}
	_ = s.AttachFile("headshotFile", Attachment{Name: "me.png", Encoded: "eA==", ContentType: "image/png"})

	if !s.ClearEncoded("headshotFile") {
		t.Fatal("Expected encoded bytes to be cleared")
	}
	got := s.File("headshotFile")
	if got.Name != "me.png" || got.Encoded != "" {
		t.Errorf("Expected name kept and bytes dropped, got %+v", got)
	}
}

func TestReplaceErrors_IsWholesale(t *testing.T) {
	s := NewStore(testSchema())
	s.ReplaceErrors(map[string]string{"firstName": "required"})
	s.ReplaceErrors(map[string]string{"careTypes": "pick one", "headshotFile": ""})

	want := map[string]string{"careTypes": "pick one"}
	if got := s.Errors(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := NewStore(testSchema())
	_ = s.SetText("firstName", "Ada")
	_ = s.SetChoice("cprCertified", "in_process")
	_ = s.SetFlag("inPersonLaborSupport", false)
	_ = s.Toggle("careTypes", "Postpartum")
	_ = s.AppendFile("insuranceFiles", Attachment{Name: "a.pdf", Encoded: "YQ=="})

	restored := NewStore(testSchema())
	if err := restored.Restore(s.Snapshot()); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !reflect.DeepEqual(s.Snapshot(), restored.Snapshot()) {
		t.Errorf("Expected identical snapshots, got %v vs %v", s.Snapshot(), restored.Snapshot())
	}
}

func TestRestore_GenericYAMLShapes(t *testing.T) {
	s := NewStore(testSchema())
	err := s.Restore(map[string]any{
		"careTypes":      []any{"Postpartum", "Miscarriage"},
		"headshotFile":   map[string]any{"name": "me.png", "encoded": "eA==", "content_type": "image/png"},
		"insuranceFiles": []any{map[string]any{"name": "a.pdf"}},
		"cprCertified":   nil,
		"firstName":      94110,
	})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := s.Text("firstName"); got != "94110" {
		t.Errorf("Expected numeric scalar as text, got %q", got)
	}
	if got := s.Selected("careTypes"); len(got) != 2 {
		t.Errorf("Expected 2 care types, got %v", got)
	}
	if got := s.File("headshotFile"); got == nil || got.ContentType != "image/png" {
		t.Errorf("Expected restored headshot, got %+v", got)
	}
	if got := s.Files("insuranceFiles"); len(got) != 1 || got[0].Name != "a.pdf" {
		t.Errorf("Expected restored insurance file, got %+v", got)
	}

	if err := s.Restore(map[string]any{"bogus": "x"}); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
}
