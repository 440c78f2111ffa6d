package ingredient

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

const numberPattern = `\d+(?:\.\d+)?(?:/\d+(?:\.\d+)?)?`

var (
	rangeRe    = regexp.MustCompile(`(` + numberPattern + `)\s*[~\-～〜]\s*(` + numberPattern + `)\s*([^\s\d()\[\]~\-～〜,.]*)`)
	mixedRe    = regexp.MustCompile(`(\d+)\s+(\d+)\s*/\s*(\d+)\s*([^\s\d()\[\]~\-～〜,.]*)`)
	fractionRe = regexp.MustCompile(`(\d+)\s*/\s*(\d+)\s*([^\s\d()\[\]~\-～〜,.]*)`)
	decimalRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([^\s\d()\[\]~\-～〜,./]*)`)
	thousandRe = regexp.MustCompile(`(\d),(\d{3})(\D|$)`)

	// 常見的 Unicode 分數字元；前面補空白，「2½」才會當成帶分數
	vulgarFractions = strings.NewReplacer(
		"½", " 1/2", "⅓", " 1/3", "⅔", " 2/3", "¼", " 1/4", "¾", " 3/4",
		"⅕", " 1/5", "⅛", " 1/8",
	)
)

// ParseQuantity 以內建詞典解析用量
func ParseQuantity(text string) Quantity {
	return defaultDictionary.ParseQuantity(text)
}

// ParseQuantity 解析用量文字
//
// 判斷順序固定：模糊用量詞、範圍、帶分數、分數、單一數字。模糊用量詞出現時即使含有數字也視為模糊。
// 任何無法解析的數字（例如分母為 0）一律回傳空結果，不會回傳錯誤。
func (d *Dictionary) ParseQuantity(text string) Quantity {
	text = vulgarFractions.Replace(norm.NFC.String(text))
	text = thousandRe.ReplaceAllString(text, "$1$2$3")

	if v, ok := d.FindVague(text); ok {
		return Quantity{IsVague: true, VagueDescription: v.Phrase, VagueKind: v.Kind}
	}

	if m := rangeRe.FindStringSubmatch(text); m != nil {
		from, ok1 := parseNumber(m[1])
		to, ok2 := parseNumber(m[2])
		if !ok1 || !ok2 {
			return Quantity{}
		}
		if to.LessThan(from) {
			from, to = to, from
		}
		return Quantity{From: &from, To: &to, Unit: d.unitPtr(m[3])}
	}

	// 「1 1/2컵」這類帶分數，分數部分必須是真分數
	if m := mixedRe.FindStringSubmatch(text); m != nil {
		whole, err := decimal.NewFromString(m[1])
		frac, ok := parseNumber(m[2] + "/" + m[3])
		if err == nil && ok && frac.LessThan(decimal.NewFromInt(1)) {
			v := whole.Add(frac)
			return Quantity{From: &v, Unit: d.unitPtr(m[4])}
		}
	}

	if m := fractionRe.FindStringSubmatch(text); m != nil {
		v, ok := parseNumber(m[1] + "/" + m[2])
		if !ok {
			return Quantity{}
		}
		return Quantity{From: &v, Unit: d.unitPtr(m[3])}
	}

	if m := decimalRe.FindStringSubmatch(text); m != nil {
		v, err := decimal.NewFromString(m[1])
		if err != nil {
			return Quantity{}
		}
		return Quantity{From: &v, Unit: d.unitPtr(m[2])}
	}

	return Quantity{}
}

func (d *Dictionary) unitPtr(token string) *string {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	u := d.Unit(token)
	return &u
}

// parseNumber 解析十進位數字或 a/b 分數
func parseNumber(s string) (decimal.Decimal, bool) {
	num, den, isFraction := strings.Cut(s, "/")
	n, err := decimal.NewFromString(strings.TrimSpace(num))
	if err != nil {
		return decimal.Decimal{}, false
	}
	if !isFraction {
		return n, true
	}
	dv, err := decimal.NewFromString(strings.TrimSpace(den))
	if err != nil || dv.IsZero() {
		return decimal.Decimal{}, false
	}
	return n.Div(dv), true
}

// String 以「from~to unit」的形式輸出，可再次被 ParseQuantity 解析
func (q Quantity) String() string {
	if q.IsVague {
		return q.VagueDescription
	}
	if q.From == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(q.From.String())
	if q.To != nil {
		b.WriteString("~")
		b.WriteString(q.To.String())
	}
	if q.Unit != nil {
		b.WriteString(*q.Unit)
	}
	return b.String()
}
