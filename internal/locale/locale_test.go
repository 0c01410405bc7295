package locale

import "testing"

func TestMatcherNormalize(t *testing.T) {
	m := NewMatcher("en", []string{"ar", "fr", "AR"})

	cases := []struct {
		input string
		want  string
	}{
		{input: "en", want: LanguageEnglish},
		{input: "en-US", want: LanguageEnglish},
		{input: "ar_SA", want: LanguageArabic},
		{input: "FR", want: LanguageFrench},
		{input: "de", want: ""},
		{input: "not a language", want: ""},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := m.Normalize(tc.input); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}

	if got := m.Supported(); len(got) != 3 {
		t.Fatalf("expected 3 supported languages, got %v", got)
	}
}

func TestMatcherFromAcceptLanguage(t *testing.T) {
	m := NewMatcher("en", []string{"ar", "fr"})

	cases := []struct {
		input string
		want  string
	}{
		{input: "fr-FR,fr;q=0.9,en;q=0.8", want: LanguageFrench},
		{input: "ar-EG", want: LanguageArabic},
		{input: "en-GB,en;q=0.9", want: LanguageEnglish},
		{input: "de-DE,de;q=0.9", want: ""},
		{input: "", want: ""},
		{input: ";;;", want: ""},
	}

	for _, tc := range cases {
		if got := m.FromAcceptLanguage(tc.input); got != tc.want {
			t.Fatalf("FromAcceptLanguage(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMatcherPreference(t *testing.T) {
	m := NewMatcher("", []string{"ar"})
	if m.Default() != LanguageEnglish {
		t.Fatalf("expected english fallback, got %q", m.Default())
	}

	pref := m.Preference("ar")
	if pref.Language != LanguageArabic || pref.Direction != "rtl" || pref.HTMLLang != "ar" {
		t.Fatalf("unexpected arabic preference %+v", pref)
	}

	fallback := m.Preference("zz")
	if fallback.Language != LanguageEnglish || fallback.Direction != "ltr" {
		t.Fatalf("unexpected fallback preference %+v", fallback)
	}
}

func TestBundledDictionaries(t *testing.T) {
	dicts, err := Bundled("en")
	if err != nil {
		t.Fatalf("Bundled returned error: %v", err)
	}

	langs := dicts.Languages()
	if len(langs) != 3 || langs[0] != "ar" || langs[1] != "en" || langs[2] != "fr" {
		t.Fatalf("unexpected languages %v", langs)
	}

	code, ar := dicts.Lookup("ar-SA")
	if code != "ar" {
		t.Fatalf("expected ar, got %q", code)
	}
	if ar["nav.home"] != "الرئيسية" {
		t.Fatalf("expected arabic nav.home, got %q", ar["nav.home"])
	}
	if ar["footer.rights"] != "All rights reserved." {
		t.Fatalf("expected english fallback for missing key, got %q", ar["footer.rights"])
	}

	code, unknown := dicts.Lookup("de")
	if code != "en" || unknown["nav.contact"] != "Contact Us" {
		t.Fatalf("expected english dictionary for unknown language, got %q %q", code, unknown["nav.contact"])
	}
}

func TestParseDictionaryFlattens(t *testing.T) {
	flat, err := ParseDictionary([]byte("a:\n  b:\n    c: deep\n  n: 3\nempty:\n"))
	if err != nil {
		t.Fatalf("ParseDictionary returned error: %v", err)
	}
	if flat["a.b.c"] != "deep" || flat["a.n"] != "3" {
		t.Fatalf("unexpected flattening %v", flat)
	}
	if _, ok := flat["empty"]; !ok {
		t.Fatalf("expected empty key to be present, got %v", flat)
	}

	if _, err := ParseDictionary([]byte("a: [unclosed")); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}
