package automation

// EvaluateConditions reports whether every condition set on the predicate
// passes against the context (logical AND). A condition is skipped, counting
// as a pass, when either its threshold or the corresponding context field is
// absent: absence never blocks a match. An empty condition set matches
// unconditionally.
//
// Threshold semantics:
//   - "below" conditions are strict: the context value must be < threshold
//   - "above" conditions are strict: the context value must be > threshold
//   - daysOverdue is inclusive: the context value must be >= threshold
//   - hoursUntilBreach is inclusive: the context value must be <= threshold
func EvaluateConditions(conditions TriggerConditions, ctx *RuleContext) bool {
	if ctx == nil {
		ctx = &RuleContext{}
	}

	if !passesBelow(conditions.MarginBelow, ctx.Margin) {
		return false
	}
	if !passesBelow(conditions.QuantityBelow, ctx.Quantity) {
		return false
	}
	if !passesBelow(conditions.ValueBelow, ctx.TotalValue) {
		return false
	}
	if !passesBelow(conditions.StockBelow, ctx.CurrentStock) {
		return false
	}
	if !passesBelow(conditions.StockPercentBelow, ctx.StockPercent) {
		return false
	}
	if !passesBelow(conditions.BuyerTrustBelow, ctx.BuyerTrustScore) {
		return false
	}

	if !passesAbove(conditions.MarginAbove, ctx.Margin) {
		return false
	}
	if !passesAbove(conditions.QuantityAbove, ctx.Quantity) {
		return false
	}
	if !passesAbove(conditions.ValueAbove, ctx.TotalValue) {
		return false
	}
	if !passesAbove(conditions.BuyerTrustAbove, ctx.BuyerTrustScore) {
		return false
	}

	// Inclusive "at least" threshold
	if conditions.DaysOverdue != nil && ctx.DaysOverdue != nil {
		if *ctx.DaysOverdue < *conditions.DaysOverdue {
			return false
		}
	}

	// Inclusive "within the window" threshold
	if conditions.HoursUntilBreach != nil && ctx.HoursUntilSLABreach != nil {
		if *ctx.HoursUntilSLABreach > *conditions.HoursUntilBreach {
			return false
		}
	}

	if conditions.StatusEquals != nil {
		if status, ok := ctx.EntityStatus(); ok && status != *conditions.StatusEquals {
			return false
		}
	}
	if conditions.StatusNotEquals != nil {
		if status, ok := ctx.EntityStatus(); ok && status == *conditions.StatusNotEquals {
			return false
		}
	}

	if len(conditions.CategoryIn) > 0 {
		if category, ok := ctx.EntityCategory(); ok && !contains(conditions.CategoryIn, category) {
			return false
		}
	}
	if len(conditions.CategoryNotIn) > 0 {
		if category, ok := ctx.EntityCategory(); ok && contains(conditions.CategoryNotIn, category) {
			return false
		}
	}

	return true
}

// passesBelow applies strict "below" semantics: an equal value does not match
func passesBelow(threshold, value *float64) bool {
	if threshold == nil || value == nil {
		return true
	}
	return *value < *threshold
}

// passesAbove applies strict "above" semantics: an equal value does not match
func passesAbove(threshold, value *float64) bool {
	if threshold == nil || value == nil {
		return true
	}
	return *value > *threshold
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
