package search

import (
	"testing"
)

func TestFind_ScriptToken(t *testing.T) {
	tool, err := New(ScriptTokens, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	data := []byte("/page?q=hello<script src=x>")
	hit, ok := tool.Find(data)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.ID != TokenJavaScript {
		t.Errorf("ID = %d, want %d", hit.ID, TokenJavaScript)
	}
	if hit.Index != 13 || hit.Length != 7 {
		t.Errorf("hit = (%d, %d), want (13, 7)", hit.Index, hit.Length)
	}
	// Offsets index the original data, not the folded copy.
	if got := string(data[hit.Index : hit.Index+hit.Length]); got != "<script" {
		t.Errorf("hit text = %q, want %q", got, "<script")
	}
}

func TestFind_CaseSensitivity(t *testing.T) {
	data := []byte("x<script>y")

	insensitive, err := New(ScriptTokens, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := insensitive.Find(data); !ok {
		t.Error("case-insensitive scan should hit lower-case data")
	}

	sensitive, err := New(ScriptTokens, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := sensitive.Find(data); ok {
		t.Error("case-sensitive scan should miss lower-case data")
	}
	if _, ok := sensitive.Find([]byte("x<SCRIPT>y")); !ok {
		t.Error("case-sensitive scan should hit exact-case data")
	}
}

func TestFind_HTMLTypeTokens(t *testing.T) {
	tool, err := New(HTMLTypeTokens, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		data string
		id   int
	}{
		{`<script type="text/javascript">`, TokenHTMLJS},
		{`<script type="text/ecmascript">`, TokenHTMLEcma},
		{`<script language="VBScript">`, TokenHTMLVB},
	}
	for _, c := range cases {
		hit, ok := tool.Find([]byte(c.data))
		if !ok {
			t.Errorf("Find(%q): expected a hit", c.data)
			continue
		}
		if hit.ID != c.id {
			t.Errorf("Find(%q): ID = %d, want %d", c.data, hit.ID, c.id)
		}
	}

	if _, ok := tool.Find([]byte(`<script type="text/plain">`)); ok {
		t.Error("expected no hit for an unlisted script type")
	}
}

func TestFindAt(t *testing.T) {
	tool, err := New(ScriptTokens, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	data := []byte("<script>a<script>b")
	first, ok := tool.Find(data)
	if !ok || first.Index != 0 {
		t.Fatalf("first hit = %+v ok=%v, want index 0", first, ok)
	}
	second, ok := tool.FindAt(data, first.Index+first.Length)
	if !ok || second.Index != 9 {
		t.Fatalf("second hit = %+v ok=%v, want index 9", second, ok)
	}
	if _, ok := tool.FindAt(data, second.Index+second.Length); ok {
		t.Error("expected no third hit")
	}
}

func TestContains(t *testing.T) {
	tool, err := New(ScriptTokens, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !tool.Contains([]byte("a<ScRiPt>b")) {
		t.Error("expected Contains to hit")
	}
	if tool.Contains([]byte("/plain/path")) {
		t.Error("expected Contains to miss")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, false); err == nil {
		t.Error("expected an error for an empty token set")
	}
	if _, err := New([]Token{{Name: "", ID: 1}}, false); err == nil {
		t.Error("expected an error for an empty token name")
	}
}
