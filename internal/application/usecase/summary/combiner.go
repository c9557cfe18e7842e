package summary

// CombinePartials merges partials in order. A later partial overwrites a field only when the
// field is in its provided set; From and To are overwritten whenever a partial defines them.
// Call order therefore encodes priority: the last partial wins on overlapping fields.
func CombinePartials(partials ...*PartialSummary) *PartialSummary {
	combined := NewPartialSummary()

	for _, partial := range partials {
		if partial == nil {
			continue
		}

		if partial.From != nil {
			from := *partial.From
			combined.From = &from
		}
		if partial.To != nil {
			to := *partial.To
			combined.To = &to
		}

		for field := range partial.Provided.Totals {
			combined.SetTotal(field, partial.Totals[field])
		}
		for field := range partial.Provided.KPIs {
			combined.SetKPI(field, partial.KPIs[field])
		}
		for field := range partial.Provided.Series {
			combined.SetSeries(field, partial.Series[field])
		}

		for field := range partial.Provided.Metadata {
			switch field {
			case MetaTransactionCount:
				combined.Metadata.TransactionCount = partial.Metadata.TransactionCount
			case MetaCoverageDays:
				combined.Metadata.CoverageDays = partial.Metadata.CoverageDays
			case MetaGeneratedAt:
				combined.Metadata.GeneratedAt = partial.Metadata.GeneratedAt
			case MetaCategoryHierarchy:
				combined.Metadata.CategoryHierarchy = partial.Metadata.CategoryHierarchy
			default:
				continue
			}
			combined.Provided.Metadata.Add(field)
		}
	}

	return combined
}
