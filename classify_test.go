package main

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(nil)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}
	return c
}

func bugIssue(title, body string) Issue {
	return Issue{Number: 1, Title: title, Body: body, State: "open", Labels: LabelList{"bug"}}
}

func TestCategoriesMultiLabel(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "rtmp stream",
			text: "RTMP stream keeps dropping on Android",
			want: []string{CategoryStreamingMedia},
		},
		{
			name: "pairing plus crash",
			text: "Bluetooth pairing fails and crashes on reconnect",
			want: []string{CategoryBluetoothPairing, CategoryAppCrashes},
		},
		{
			name: "no match falls to other",
			text: "documentation typo in README",
			want: []string{CategoryOther},
		},
		{
			name: "case insensitive",
			text: "BLUETOOTH will not PAIR",
			want: []string{CategoryBluetoothPairing},
		},
		{
			name: "permission and audio",
			text: "microphone permission denied during playback",
			want: []string{CategoryPermissionsAndroid, CategoryAudioProcessing},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Categories(bugIssue(tt.text, ""))
			if len(got) != len(tt.want) {
				t.Fatalf("Categories(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Categories(%q) = %v, want %v", tt.text, got, tt.want)
				}
			}
		})
	}
}

func TestCategoriesNeverEmpty(t *testing.T) {
	c := newTestClassifier(t)

	inputs := []Issue{
		bugIssue("", ""),
		bugIssue("x", ""),
		bugIssue("unrelated words entirely", "nothing that matches"),
		bugIssue("glasses keep disconnecting", "ble transfer stalls"),
	}
	for _, issue := range inputs {
		if got := c.Categories(issue); len(got) == 0 {
			t.Fatalf("Categories(%q) returned empty set", issue.Title)
		}
	}
}

func TestCategoriesUseBodyText(t *testing.T) {
	c := newTestClassifier(t)

	issue := bugIssue("something is wrong", "the app shows a blank screen and throws an exception")
	got := c.Categories(issue)
	found := false
	for _, cat := range got {
		if cat == CategoryAppCrashes {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected app_crashes from body text, got %v", got)
	}
}

func TestCategoryPatternTableShape(t *testing.T) {
	if len(categoryOrder) != 18 {
		t.Fatalf("expected 18 category rules, got %d", len(categoryOrder))
	}
	for _, category := range categoryOrder {
		patterns, ok := categoryPatterns[category]
		if !ok {
			t.Fatalf("category %s has no pattern list", category)
		}
		if len(patterns) == 0 {
			t.Fatalf("category %s has an empty pattern list", category)
		}
	}
	if _, ok := categoryPatterns[CategoryOther]; ok {
		t.Fatal("'other' must be the fallback, not a rule")
	}
}

func TestPlatform(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		text string
		want string
	}{
		{"crashes on Android 14", PlatformAndroid},
		{"iOS app will not launch", PlatformIOS},
		{"iPhone shows black screen", PlatformIOS},
		{"broken on android and ios", PlatformBoth},
		{"no platform mentioned here", PlatformUnspecified},
		{"androidish words do not count", PlatformUnspecified},
		{"bios settings are unrelated", PlatformUnspecified},
	}
	for _, tt := range tests {
		got := c.Platform(bugIssue(tt.text, ""))
		if got != tt.want {
			t.Errorf("Platform(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestHardware(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"g1", "display garbled on G1", HardwareEvenRealitiesG1},
		{"even realities", "even realities glasses flicker", HardwareEvenRealitiesG1},
		{"mentra live", "Mentra Live drops frames", HardwareMentraLive},
		{"bare live", "live preview is broken", HardwareMentraLive},
		{"mach 1", "mach 1 does not boot", HardwareMentraMach1},
		{"vuzix", "Vuzix Z100 pairing issue", HardwareVuzixZ100},
		{"z100 only", "z100 shows nothing", HardwareVuzixZ100},
		{"none", "no hardware named", HardwareUnspecified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Hardware(bugIssue(tt.text, ""))
			if got != tt.want {
				t.Errorf("Hardware(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestHardwarePriorityOnOverlap(t *testing.T) {
	c := newTestClassifier(t)

	// "live" matches mentra_live's generic pattern, but g1 comes first in
	// the priority order.
	issue := bugIssue("G1 live preview is broken", "")
	if got := c.Hardware(issue); got != HardwareEvenRealitiesG1 {
		t.Fatalf("Hardware = %q, want %q (priority order)", got, HardwareEvenRealitiesG1)
	}

	// mentra_live outranks vuzix when both appear.
	issue = bugIssue("live stream fails on vuzix", "")
	if got := c.Hardware(issue); got != HardwareMentraLive {
		t.Fatalf("Hardware = %q, want %q (priority order)", got, HardwareMentraLive)
	}
}

func TestClassifierWithRuleExtensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
categories:
  - category: wifi_connectivity
    patterns:
      - '\bcaptive\b.*\bportal\b'
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}
	ext, err := LoadRuleExtensions(path)
	if err != nil {
		t.Fatalf("LoadRuleExtensions failed: %v", err)
	}
	c, err := NewClassifier(ext)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	got := c.Categories(bugIssue("stuck behind captive portal login", ""))
	if len(got) != 1 || got[0] != CategoryWifiConnectivity {
		t.Fatalf("Categories = %v, want [wifi_connectivity]", got)
	}

	// The built-in tables must be untouched by extension compilation.
	plain := newTestClassifier(t)
	if got := plain.Categories(bugIssue("stuck behind captive portal login", "")); got[0] != CategoryOther {
		t.Fatalf("built-in classifier affected by extensions: %v", got)
	}
}
