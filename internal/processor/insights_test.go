package processor

import (
	"reflect"
	"testing"
)

func TestExtractKeywordsRankedByFrequency(t *testing.T) {
	e := NewInsightExtractor(DefaultInsightConfig())
	docs := []Document{
		{Title: "Oil prices surge", Body: "Oil demand rises. Prices follow demand.", Source: "a"},
		{Title: "Oil output cut", Body: "This news says output falls with demand.", Source: "b"},
	}

	got := e.Extract("energy", docs)

	// "oil" 只有 3 个字母不计入；同频按首次出现顺序
	want := []string{"demand", "prices", "output", "surge", "rises", "follow", "falls"}
	if !reflect.DeepEqual(got.TopKeywords, want) {
		t.Fatalf("keywords = %v, want %v", got.TopKeywords, want)
	}
	for _, kw := range got.TopKeywords {
		switch kw {
		case "this", "news", "says", "with":
			t.Fatalf("stopword %q leaked into keywords: %v", kw, got.TopKeywords)
		}
		if len(kw) < 4 {
			t.Fatalf("keyword %q shorter than 4 letters", kw)
		}
	}
	if got.ArticleCount != 2 || got.SourceCount != 2 || got.Category != "energy" {
		t.Fatalf("unexpected counts: %+v", got)
	}
}

func TestMostCommonTieBreakFirstSeen(t *testing.T) {
	got := mostCommon([]string{"beta", "alpha", "beta", "gamma", "alpha", "delta"}, 3)
	want := []string{"beta", "alpha", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mostCommon = %v, want %v", got, want)
	}
}

func TestExtractTickersFromTitlesOnly(t *testing.T) {
	e := NewInsightExtractor(DefaultInsightConfig())
	docs := []Document{
		{Title: "AAPL and MSFT rally as NASA and THE US watch", Body: "TSLA is only in the body", Source: "wire"},
		{Title: "AAPL extends gains; BBC reports AP story", Source: "wire"},
		{Title: "", Body: "GOOG", Source: ""},
	}

	got := e.Extract("finance", docs)
	want := []string{"AAPL", "MSFT"}
	if !reflect.DeepEqual(got.MentionedTickers, want) {
		t.Fatalf("tickers = %v, want %v", got.MentionedTickers, want)
	}
	if got.SourceCount != 1 || got.ArticleCount != 3 {
		t.Fatalf("source_count=%d article_count=%d, want 1 and 3", got.SourceCount, got.ArticleCount)
	}
}

func TestExtractListsAreBounded(t *testing.T) {
	e := NewInsightExtractor(DefaultInsightConfig())
	docs := []Document{{
		Title: "AA BB CC DD EE FF GG HH II",
		Body:  "alpha bravo charlie delta echoes foxtrot golf hotel india juliet kilo lima",
	}}

	got := e.Extract("misc", docs)
	if len(got.TopKeywords) != 8 {
		t.Fatalf("expected 8 keywords, got %v", got.TopKeywords)
	}
	if len(got.MentionedTickers) != 6 {
		t.Fatalf("expected 6 tickers, got %v", got.MentionedTickers)
	}
}

func TestExtractInjectedConfig(t *testing.T) {
	cfg := DefaultInsightConfig()
	cfg.Stopwords = append(cfg.Stopwords, "rally")
	cfg.TickerBlocklist = append(cfg.TickerBlocklist, "CEO")
	cfg.MaxKeywords = 2

	got := NewInsightExtractor(cfg).Extract("x", []Document{{Title: "CEO says AMZN rally continues strongly"}})
	for _, kw := range got.TopKeywords {
		if kw == "rally" {
			t.Fatalf("injected stopword not applied: %v", got.TopKeywords)
		}
	}
	if len(got.TopKeywords) != 2 {
		t.Fatalf("MaxKeywords not applied: %v", got.TopKeywords)
	}
	if !reflect.DeepEqual(got.MentionedTickers, []string{"AMZN"}) {
		t.Fatalf("tickers = %v, want [AMZN]", got.MentionedTickers)
	}
}

func TestExtractEmptyBatch(t *testing.T) {
	got := NewInsightExtractor(DefaultInsightConfig()).Extract("empty", nil)
	if got.ArticleCount != 0 || got.SourceCount != 0 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if got.TopKeywords == nil || got.MentionedTickers == nil {
		t.Fatalf("lists should be empty, not nil: %+v", got)
	}
}

func TestExtractKeepsAccentedWordsWhole(t *testing.T) {
	e := NewInsightExtractor(DefaultInsightConfig())
	docs := []Document{{Title: "Nestlé shares in Zürich", Body: "Nestlé café résumé", Source: "wire"}}

	got := e.Extract("x", docs)
	if !reflect.DeepEqual(got.TopKeywords, []string{"shares"}) {
		t.Fatalf("keywords = %v, want [shares]", got.TopKeywords)
	}
	if len(got.MentionedTickers) != 0 {
		t.Fatalf("tickers = %v, want none", got.MentionedTickers)
	}

	got = e.Extract("x", []Document{{Title: "ÉTAT and SAP report; Öl BASF"}})
	if !reflect.DeepEqual(got.MentionedTickers, []string{"SAP", "BASF"}) {
		t.Fatalf("tickers = %v, want [SAP BASF]", got.MentionedTickers)
	}
}
