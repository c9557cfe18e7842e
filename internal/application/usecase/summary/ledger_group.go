package summary

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pj-finance/backend/internal/domain/entity"
)

// LedgerGroupResolver maps a transaction to its ledger group.
type LedgerGroupResolver func(tx *entity.BankTransaction) entity.LedgerGroup

// legacyRule matches a normalized legacy category text against substrings.
type legacyRule struct {
	needles []string
	group   func(tx *entity.BankTransaction) entity.LedgerGroup
}

func fixedGroup(group entity.LedgerGroup) func(*entity.BankTransaction) entity.LedgerGroup {
	return func(*entity.BankTransaction) entity.LedgerGroup { return group }
}

// legacyRules are evaluated in order; the first match wins. A text holding several needles
// (e.g. "COM" and "FINAN") resolves to the earlier rule.
var legacyRules = []legacyRule{
	{needles: []string{"DEDU"}, group: fixedGroup(entity.LedgerGroupDeducoesReceita)},
	{needles: []string{"GER", "ADM"}, group: fixedGroup(entity.LedgerGroupGEA)},
	{needles: []string{"COM", "MARK"}, group: fixedGroup(entity.LedgerGroupComercialMkt)},
	{needles: []string{"FINAN"}, group: fixedGroup(entity.LedgerGroupFinanceiras)},
	{needles: []string{"RECEITA", "FATUR"}, group: func(tx *entity.BankTransaction) entity.LedgerGroup {
		if tx.Amount.IsNegative() {
			return entity.LedgerGroupDeducoesReceita
		}
		return entity.LedgerGroupReceita
	}},
	{needles: []string{"OUTR"}, group: fixedGroup(entity.LedgerGroupOutras)},
}

// GetLedgerGroup classifies a transaction into exactly one ledger group.
// An explicit categorization wins; otherwise the legacy DFC category and then the DFC item are
// matched; otherwise the sign of the amount decides.
func GetLedgerGroup(tx *entity.BankTransaction) entity.LedgerGroup {
	if tx.CategorizedAs != nil && tx.CategorizedAs.Group.IsValid() {
		return tx.CategorizedAs.Group
	}

	for _, text := range []string{tx.DfcCategory, tx.DfcItem} {
		if group, ok := matchLegacyText(tx, text); ok {
			return group
		}
	}

	if tx.Amount.IsNegative() {
		return entity.LedgerGroupOutras
	}
	return entity.LedgerGroupReceita
}

func matchLegacyText(tx *entity.BankTransaction, text string) (entity.LedgerGroup, bool) {
	normalized := normalizeLegacyText(text)
	if normalized == "" {
		return "", false
	}

	for _, rule := range legacyRules {
		for _, needle := range rule.needles {
			if strings.Contains(normalized, needle) {
				return rule.group(tx), true
			}
		}
	}
	return "", false
}

// normalizeLegacyText strips accents, uppercases and drops every non-alphanumeric rune.
func normalizeLegacyText(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	for _, r := range strings.ToUpper(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
