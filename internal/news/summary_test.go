package news

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSynthesizeSummary_ProductLaunch(t *testing.T) {
	got := SynthesizeSummary("OpenAI launches new ChatGPT update", "", 100)

	if !strings.HasPrefix(got, "产品发布：OpenAI") {
		t.Errorf("summary = %q, want prefix 产品发布：OpenAI", got)
	}
	want := "产品发布：OpenAI发布大语言模型，为用户提供技术突破"
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestSynthesizeSummary_Research(t *testing.T) {
	got := SynthesizeSummary(
		"DeepMind research paper on neural networks",
		"A new study on deep learning architectures",
		100,
	)

	want := "研究进展：DeepMind研究AI技术，推动技术技术突破"
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestSynthesizeSummary_Categories(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		wantPrefix  string
	}{
		{"research beats funding", "Study of funding trends", "", "研究进展："},
		{"investment", "Startup closes round", "<p>Funding round &amp; valuation</p>", "投资动态："},
		{"product", "Tool gets an update", "", "产品发布："},
		{"partnership", "Firms sign partnership", "", "商业合作："},
		{"acquisition", "Big acquisition closes", "", "商业合作："},
		{"policy", "EU drafts AI regulation", "", "政策监管："},
		{"general", "Quiet week in tech", "", "行业动态："},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SynthesizeSummary(tt.title, tt.description, 100)
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("summary = %q, want prefix %q", got, tt.wantPrefix)
			}
		})
	}
}

func TestSynthesizeSummary_Subject(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"openai via chatgpt", "ChatGPT gains memory", "OpenAI"},
		{"openai before anthropic", "Anthropic and OpenAI trade blows", "OpenAI"},
		{"anthropic via claude", "Claude writes code", "Anthropic"},
		{"google via gemini", "Gemini tops charts", "谷歌"},
		{"microsoft via copilot", "Copilot in every app", "微软"},
		{"apple falls back to title", "Apple ships on-device models", "Apple"},
		{"pineapple is not apple", "Pineapple farm adopts robots", "Pineapple"},
		{"metadata is not meta", "Startup builds metadata search", "Startup"},
		{"metal is not meta", "Researchers study metal printing", "Researchers"},
		{"title token", "Mistral opens weights", "Mistral"},
		{"nineteen rune token", strings.Repeat("q", 19) + " rises", strings.Repeat("q", 19)},
		{"twenty rune token", strings.Repeat("q", 20) + " rises", genericSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := subject(tt.title, strings.ToLower(tt.title))
			if got != tt.want {
				t.Errorf("subject(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSynthesizeSummary_SubjectFromTitleWord(t *testing.T) {
	got := SynthesizeSummary("Startup builds metadata search", "", 100)
	want := "行业动态：Startup开发AI技术，关注行业发展"
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestSynthesizeSummary_LongTitleFallsBackToPlaceholder(t *testing.T) {
	title := strings.Repeat("x", 25)

	got := SynthesizeSummary(title, "", 100)

	if strings.Contains(got, title) {
		t.Errorf("summary %q contains the full 25-character title", got)
	}
	want := "行业动态：相关企业推出AI技术，关注行业发展"
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestSynthesizeSummary_ActionsAndTopics(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Lab unveils vision system", "宣布视觉AI"},
		{"Team builds robot arm", "开发机器人技术"},
		{"Vendors partner on algorithm", "合作AI技术"},
		{"Giant to acquire startup", "收购AI技术"},
		{"VCs invest in LLM tooling", "融资大语言模型"},
		{"Quiet week", "推出AI技术"},
	}

	for _, tt := range tests {
		got := SynthesizeSummary(tt.title, "", 100)
		if !strings.Contains(got, tt.want) {
			t.Errorf("SynthesizeSummary(%q) = %q, want it to contain %q", tt.title, got, tt.want)
		}
	}
}

func TestSynthesizeSummary_Closing(t *testing.T) {
	if got := SynthesizeSummary("Quiet week", "Models improve slowly", 100); !strings.HasSuffix(got, "性能提升") {
		t.Errorf("summary = %q, want suffix 性能提升", got)
	}
	if got := SynthesizeSummary("Quiet week", "", 100); !strings.HasSuffix(got, "，关注行业发展") {
		t.Errorf("summary = %q, want suffix ，关注行业发展", got)
	}
}

func TestSynthesizeSummary_ElaborationHeadroom(t *testing.T) {
	title := "OpenAI launches new ChatGPT update"
	base := "产品发布：OpenAI发布大语言模型"

	// 18 characters assembled; exactly 20 free characters allows the elaboration.
	if got := SynthesizeSummary(title, "", 38); got != base+"，为用户提供技术突破" {
		t.Errorf("maxChars=38: summary = %q", got)
	}
	if got := SynthesizeSummary(title, "", 37); got != base {
		t.Errorf("maxChars=37: summary = %q, want %q", got, base)
	}
}

func TestSynthesizeSummary_Truncates(t *testing.T) {
	got := SynthesizeSummary("OpenAI launches new ChatGPT update", "", 10)

	if utf8.RuneCountInString(got) != 10 {
		t.Errorf("summary %q has %d characters, want 10", got, utf8.RuneCountInString(got))
	}
	if got != "产品发布：Op..." {
		t.Errorf("summary = %q", got)
	}
}

func TestSynthesizeSummary_NonPositiveBudgetUsesDefault(t *testing.T) {
	title := "OpenAI launches new ChatGPT update"
	if SynthesizeSummary(title, "", 0) != SynthesizeSummary(title, "", DefaultMaxChars) {
		t.Error("maxChars=0 should behave like the default budget")
	}
}

func TestSynthesizeSummary_LengthBound(t *testing.T) {
	inputs := [][2]string{
		{"OpenAI launches new ChatGPT update", ""},
		{"DeepMind research paper on neural networks", "A new study on deep learning architectures"},
		{strings.Repeat("x", 25), ""},
		{"Anthropic partners with Amazon", "<b>Collaboration</b> to improve Claude&nbsp;models"},
		{"政策 regulation news", "ethics &amp; policy"},
	}

	for _, in := range inputs {
		for maxChars := 1; maxChars <= 120; maxChars++ {
			got := SynthesizeSummary(in[0], in[1], maxChars)
			if got == "" {
				t.Fatalf("empty summary for %q at maxChars=%d", in[0], maxChars)
			}
			if n := utf8.RuneCountInString(got); n > maxChars {
				t.Fatalf("summary %q has %d characters, budget %d", got, n, maxChars)
			}
		}
	}
}

func TestSynthesizeSummary_Deterministic(t *testing.T) {
	title, desc := "Anthropic partners with Amazon", "<p>Collaboration on Claude</p>"
	first := SynthesizeSummary(title, desc, 100)
	for i := 0; i < 10; i++ {
		if got := SynthesizeSummary(title, desc, 100); got != first {
			t.Fatalf("call %d returned %q, first returned %q", i, got, first)
		}
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("新", 140)

	got := Truncate(long, 100)
	if utf8.RuneCountInString(got) != 100 {
		t.Errorf("Truncate length = %d, want 100", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate result %q does not end with ellipsis", got)
	}

	if got := Truncate("short", 100); got != "short" {
		t.Errorf("Truncate(short) = %q", got)
	}
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Truncate(abcdef, 3) = %q, want abc", got)
	}
	if got := Truncate("abcdef", 0); got != "" {
		t.Errorf("Truncate(abcdef, 0) = %q, want empty", got)
	}
}
