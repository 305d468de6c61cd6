package commands

import "testing"

func TestRootCommand(t *testing.T) {
	cmd := Root()

	if cmd.Use != "aistack" {
		t.Errorf("Use = %q, want %q", cmd.Use, "aistack")
	}

	expected := []string{"deploy", "teardown", "status", "cost", "version", "completion"}
	for _, name := range expected {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
