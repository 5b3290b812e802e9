package cmd

import (
	"testing"
)

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"serve", "ingest", "ask", "sync", "version"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestAskRequiresQuestion(t *testing.T) {
	if err := askCmd.Args(askCmd, nil); err == nil {
		t.Error("ask should require at least one argument")
	}
	if err := askCmd.Args(askCmd, []string{"what is pollinet"}); err != nil {
		t.Errorf("ask with a question: %v", err)
	}
}

func TestIngestRequiresFile(t *testing.T) {
	if err := ingestCmd.Args(ingestCmd, nil); err == nil {
		t.Error("ingest should require a file argument")
	}
	if err := ingestCmd.Args(ingestCmd, []string{"a", "b"}); err == nil {
		t.Error("ingest should reject multiple files")
	}
}
