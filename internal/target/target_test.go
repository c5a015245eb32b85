package target

import "testing"

func TestParseArchAliases(t *testing.T) {
	cases := map[string]Arch{
		"x86_64": ArchX86_64,
		"amd64":  ArchX86_64,
		"arm64":  ArchARM64,
		"riscv":  ArchRiscv64,
	}
	for s, want := range cases {
		got, err := ParseArch(s)
		if err != nil {
			t.Fatalf("ParseArch(%q) error: %v", s, err)
		}
		if got != want {
			t.Fatalf("ParseArch(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseArchUnsupported(t *testing.T) {
	if _, err := ParseArch("sparc"); err == nil {
		t.Fatal("expected error for unsupported architecture")
	}
}

func TestParseOSAliases(t *testing.T) {
	cases := map[string]OS{
		"linux":   OSLinux,
		"macos":   OSDarwin,
		"darwin":  OSDarwin,
		"windows": OSWindows,
	}
	for s, want := range cases {
		got, err := ParseOS(s)
		if err != nil {
			t.Fatalf("ParseOS(%q) error: %v", s, err)
		}
		if got != want {
			t.Fatalf("ParseOS(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseTargetString(t *testing.T) {
	tgt, err := Parse("arm64-macos")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if tgt.Arch() != ArchARM64 || tgt.OS() != OSDarwin {
		t.Fatalf("Parse(arm64-macos) = %v/%v, want ARM64/Darwin", tgt.Arch(), tgt.OS())
	}
}

func TestParseTargetMissingDash(t *testing.T) {
	if _, err := Parse("arm64"); err == nil {
		t.Fatal("expected error for target string with no dash")
	}
}

func TestProcessSizePerOS(t *testing.T) {
	linux := New(ArchX86_64, OSLinux)
	if linux.ProcessSize() != 112 {
		t.Fatalf("linux ProcessSize = %d, want 112", linux.ProcessSize())
	}
	windows := New(ArchX86_64, OSWindows)
	if windows.ProcessSize() != 128 {
		t.Fatalf("windows ProcessSize = %d, want 128", windows.ProcessSize())
	}
}

func TestPassStructSizeDefault(t *testing.T) {
	tgt := New(ArchARM64, OSDarwin)
	if tgt.PassStructSize() != 128 {
		t.Fatalf("PassStructSize = %d, want 128", tgt.PassStructSize())
	}
}

func TestNewWithOverrides(t *testing.T) {
	tgt := NewWithOverrides(ArchX86_64, OSLinux, 200, 256)
	if tgt.ProcessSize() != 200 {
		t.Fatalf("overridden ProcessSize = %d, want 200", tgt.ProcessSize())
	}
	if tgt.PassStructSize() != 256 {
		t.Fatalf("overridden PassStructSize = %d, want 256", tgt.PassStructSize())
	}
}

func TestFullString(t *testing.T) {
	tgt := New(ArchX86_64, OSLinux)
	if got := tgt.FullString(); got != "amd64-linux" {
		t.Fatalf("FullString = %q, want amd64-linux", got)
	}
}

func TestDefaultIsUsable(t *testing.T) {
	tgt := Default()
	if tgt.ProcessSize() == 0 || tgt.PassStructSize() == 0 {
		t.Fatal("Default() target should have non-zero ABI facts")
	}
}
