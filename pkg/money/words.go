package money

import "strings"

var units = [...]string{
	"zéro", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit", "neuf",
	"dix", "onze", "douze", "treize", "quatorze", "quinze", "seize", "dix-sept", "dix-huit", "dix-neuf",
}

var tens = [...]string{"", "", "vingt", "trente", "quarante", "cinquante", "soixante"}

// InWords escribe un entero en letras en francés (ortografía tradicional).
func InWords(n int64) string {
	if n == 0 {
		return units[0]
	}
	if n < 0 {
		// -MinInt64 desborda; se trata como uint64
		return "moins " + spell(uint64(-(n+1))+1)
	}
	return spell(uint64(n))
}

func spell(n uint64) string {
	var parts []string

	scales := []struct {
		value    uint64
		singular string
		plural   string
	}{
		{1_000_000_000, "milliard", "milliards"},
		{1_000_000, "million", "millions"},
	}
	for _, s := range scales {
		if q := n / s.value; q > 0 {
			name := s.plural
			if q == 1 {
				name = s.singular
			}
			parts = append(parts, spell(q)+" "+name)
			n %= s.value
		}
	}

	if th := n / 1000; th > 0 {
		if th == 1 {
			parts = append(parts, "mille")
		} else {
			// "mille" es invariable y no pluraliza "cent" ni "vingt" delante
			parts = append(parts, below1000(th, false)+" mille")
		}
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, below1000(n, true))
	}
	return strings.Join(parts, " ")
}

// below1000 escribe 1..999. final indica si el número cierra la cifra
// (solo entonces "cents" y "quatre-vingts" llevan s).
func below1000(n uint64, final bool) string {
	h, r := n/100, n%100
	var b strings.Builder
	switch {
	case h == 1:
		b.WriteString("cent")
	case h > 1:
		b.WriteString(units[h])
		b.WriteString(" cent")
		if r == 0 && final {
			b.WriteString("s")
		}
	}
	if r > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(below100(r, final))
	}
	return b.String()
}

func below100(n uint64, final bool) string {
	if n < 20 {
		return units[n]
	}
	t, u := n/10, n%10
	switch t {
	case 7:
		if u == 1 {
			return "soixante et onze"
		}
		return "soixante-" + units[10+u]
	case 8:
		if u == 0 {
			if final {
				return "quatre-vingts"
			}
			return "quatre-vingt"
		}
		return "quatre-vingt-" + units[u]
	case 9:
		return "quatre-vingt-" + units[10+u]
	}
	switch u {
	case 0:
		return tens[t]
	case 1:
		return tens[t] + " et un"
	default:
		return tens[t] + "-" + units[u]
	}
}
