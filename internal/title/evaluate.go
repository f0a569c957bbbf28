package title

// Result is the outcome of one award pass.
type Result struct {
	// Earned is the full set of earned title ids after the pass, in the
	// order they were first recorded (prior ids first, then new ids in
	// catalog order). It replaces the stored set wholesale.
	Earned []string
	// NewlyEarned lists titles unlocked by this pass, in catalog order.
	NewlyEarned []Definition
	// TotalBonus is the recomputed sum of bonus points over every earned
	// title. Callers persist it as an overwrite, not an increment.
	TotalBonus int
	// Changed reports whether the earned set differs from the input; when
	// false nothing needs persisting or announcing.
	Changed bool
}

// Evaluate runs the catalog, in declaration order, against a reconciled
// snapshot. Titles already earned are never re-checked and never revoked;
// their bonus is recomputed from the catalog rather than trusted from
// storage.
func Evaluate(earned []string, snap Snapshot) Result {
	earnedSet := make(map[string]bool, len(earned))
	newEarned := make([]string, 0, len(earned))
	totalBonus := 0

	for _, id := range earned {
		if earnedSet[id] {
			continue
		}
		earnedSet[id] = true
		newEarned = append(newEarned, id)
		if def := ByID(id); def != nil {
			totalBonus += def.BonusPoints
		}
	}

	var newly []Definition
	for _, def := range Catalog {
		if earnedSet[def.ID] || !def.Check(snap) {
			continue
		}
		earnedSet[def.ID] = true
		newEarned = append(newEarned, def.ID)
		totalBonus += def.BonusPoints
		newly = append(newly, def)
	}

	return Result{
		Earned:      newEarned,
		NewlyEarned: newly,
		TotalBonus:  totalBonus,
		Changed:     len(newly) > 0 || len(newEarned) != len(earned),
	}
}
