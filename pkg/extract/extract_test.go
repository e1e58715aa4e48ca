package extract

import (
	"reflect"
	"testing"
)

func TestTag_SinglePair(t *testing.T) {
	text := "Some prose before.\n<response>  hello world  </response>\nAnd after."

	got := Tag(text, "response")
	if got != "hello world" {
		t.Errorf("Tag() = %q, want %q", got, "hello world")
	}
}

func TestTag_Missing(t *testing.T) {
	got := Tag("no tags here at all", "response")
	if got != "" {
		t.Errorf("Tag() = %q, want empty string", got)
	}
}

func TestTag_CaseInsensitive(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"mixed case open", "<Reasoning>because</reasoning>"},
		{"upper case both", "<REASONING>because</REASONING>"},
		{"mixed request", "<reasoning>because</Reasoning>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tag(tt.text, "reasoning"); got != "because" {
				t.Errorf("Tag(%q) = %q, want %q", tt.text, got, "because")
			}
		})
	}
}

func TestTag_Multiline(t *testing.T) {
	text := "<thoughts>\nline one\nline two\n</thoughts>"

	got := Tag(text, "thoughts")
	if got != "line one\nline two" {
		t.Errorf("Tag() = %q", got)
	}
}

func TestTag_EmptyContent(t *testing.T) {
	if got := Tag("<feedback></feedback>", "feedback"); got != "" {
		t.Errorf("Tag() = %q, want empty string", got)
	}
	if got := Tag("<feedback>   \n  </feedback>", "feedback"); got != "" {
		t.Errorf("Tag() with whitespace = %q, want empty string", got)
	}
}

func TestTag_UnclosedTag(t *testing.T) {
	if got := Tag("<response>never closed", "response"); got != "" {
		t.Errorf("Tag() = %q, want empty string for unclosed tag", got)
	}
}

func TestTag_FirstPairWins(t *testing.T) {
	text := "<selection>first</selection> junk <selection>second</selection>"

	if got := Tag(text, "selection"); got != "first" {
		t.Errorf("Tag() = %q, want %q", got, "first")
	}
}

func TestTag_FirstClosingTerminates(t *testing.T) {
	// Nested same-named tags are not specially handled.
	text := "<task>outer <task>inner</task> tail</task>"

	if got := Tag(text, "task"); got != "outer <task>inner" {
		t.Errorf("Tag() = %q", got)
	}
}

func TestTag_DoesNotMatchPrefixTags(t *testing.T) {
	// <tasks> must not satisfy a request for <task>... but note the opening
	// "<task" is a prefix of "<tasks"; only a complete "<task>" matches.
	text := "<tasks><task>one</task></tasks>"

	if got := Tag(text, "task"); got != "one" {
		t.Errorf("Tag() = %q, want %q", got, "one")
	}
	if got := Tag(text, "tasks"); got != "<task>one</task>" {
		t.Errorf("Tag(tasks) = %q", got)
	}
}

func TestBlocks_Order(t *testing.T) {
	text := "<task>a</task>\nnoise\n<TASK>b</TASK>\n<task>c</task>"

	got := Blocks(text, "task")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Blocks() = %v, want %v", got, want)
	}
}

func TestBlocks_None(t *testing.T) {
	if got := Blocks("nothing tagged", "task"); len(got) != 0 {
		t.Errorf("Blocks() = %v, want empty", got)
	}
}

func TestBlocks_IgnoresTrailingUnclosed(t *testing.T) {
	got := Blocks("<task>done</task><task>still open", "task")
	want := []string{"done"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Blocks() = %v, want %v", got, want)
	}
}
