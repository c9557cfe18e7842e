package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pj-finance/backend/internal/domain/entity"
)

// UncategorizedLabel is the label of transactions without a known subcategory.
const UncategorizedLabel = "Sem categoria"

// ledgerGroupLabels are the statement labels of each ledger group.
var ledgerGroupLabels = map[entity.LedgerGroup]string{
	entity.LedgerGroupReceita:         "Receita",
	entity.LedgerGroupDeducoesReceita: "Deduções da receita",
	entity.LedgerGroupGEA:             "Despesas gerais e administrativas",
	entity.LedgerGroupComercialMkt:    "Comercial e marketing",
	entity.LedgerGroupFinanceiras:     "Financeiras",
	entity.LedgerGroupOutras:          "Outras",
}

// CategoryAggregator builds the category hierarchy of a transaction set.
type CategoryAggregator interface {
	Aggregate(
		transactions []*entity.BankTransaction,
		categories []*entity.PjCategory,
		resolve LedgerGroupResolver,
	) []*entity.CategoryNode
}

// ledgerTreeAggregator groups transactions by ledger group and then by subcategory.
type ledgerTreeAggregator struct{}

// NewCategoryAggregator returns the default ledger-group tree builder.
func NewCategoryAggregator() CategoryAggregator {
	return ledgerTreeAggregator{}
}

type nodeTotals struct {
	inflow  decimal.Decimal
	outflow decimal.Decimal
	count   int
}

func (n *nodeTotals) add(amount decimal.Decimal) {
	if amount.IsNegative() {
		n.outflow = n.outflow.Add(amount.Abs())
	} else {
		n.inflow = n.inflow.Add(amount)
	}
	n.count++
}

func (n *nodeTotals) toNode(key, label string) *entity.CategoryNode {
	return &entity.CategoryNode{
		Key:              key,
		Label:            label,
		Inflow:           n.inflow.InexactFloat64(),
		Outflow:          n.outflow.InexactFloat64(),
		Net:              n.inflow.Sub(n.outflow).InexactFloat64(),
		TransactionCount: n.count,
	}
}

// Aggregate implements CategoryAggregator. Only groups holding transactions are emitted,
// in statement order; subcategories are sorted by label.
func (ledgerTreeAggregator) Aggregate(
	transactions []*entity.BankTransaction,
	categories []*entity.PjCategory,
	resolve LedgerGroupResolver,
) []*entity.CategoryNode {
	if resolve == nil {
		resolve = GetLedgerGroup
	}

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		if c != nil {
			names[c.ID] = c.Name
		}
	}

	groupTotals := make(map[entity.LedgerGroup]*nodeTotals)
	childTotals := make(map[entity.LedgerGroup]map[string]*nodeTotals)

	for _, tx := range transactions {
		group := resolve(tx)
		if groupTotals[group] == nil {
			groupTotals[group] = &nodeTotals{}
			childTotals[group] = make(map[string]*nodeTotals)
		}
		groupTotals[group].add(tx.Amount)

		label := subcategoryLabel(tx, names)
		if childTotals[group][label] == nil {
			childTotals[group][label] = &nodeTotals{}
		}
		childTotals[group][label].add(tx.Amount)
	}

	nodes := make([]*entity.CategoryNode, 0, len(groupTotals))
	for _, group := range entity.LedgerGroups {
		totals, ok := groupTotals[group]
		if !ok {
			continue
		}
		node := totals.toNode(string(group), ledgerGroupLabels[group])

		labels := make([]string, 0, len(childTotals[group]))
		for label := range childTotals[group] {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			node.Children = append(node.Children, childTotals[group][label].toNode(string(group)+"/"+label, label))
		}

		nodes = append(nodes, node)
	}

	return nodes
}

// subcategoryLabel resolves the display label of a transaction's subcategory.
// The subcategory may reference a category ID or carry a free-text name.
func subcategoryLabel(tx *entity.BankTransaction, names map[string]string) string {
	if tx.CategorizedAs != nil && tx.CategorizedAs.Subcategory != "" {
		if name, ok := names[tx.CategorizedAs.Subcategory]; ok {
			return name
		}
		return tx.CategorizedAs.Subcategory
	}
	if tx.DfcItem != "" {
		return tx.DfcItem
	}
	return UncategorizedLabel
}
