package positions

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bobmccarthy/chainfolio/internal/models"
)

// ValidateManualGrouping checks a user-overridden positionID -> tradeIDs
// mapping against the full trade list. It verifies coverage (every trade in
// exactly one group), token consistency (a group touches at most two
// distinct tokens), and chronological order within each group. It is a pure
// integrity check: no FIFO state is read or written.
func (s *Service) ValidateManualGrouping(trades []models.TradeRecord, grouping map[string][]string) *models.GroupingReport {
	errs := []string{}

	tradeByID := make(map[string]models.TradeRecord, len(trades))
	for _, t := range trades {
		tradeByID[t.ID] = t
	}

	// Count how often each trade id is claimed, across all groups.
	claimed := make(map[string]int)

	groupIDs := make([]string, 0, len(grouping))
	for id := range grouping {
		groupIDs = append(groupIDs, id)
	}
	sort.Strings(groupIDs)

	for _, groupID := range groupIDs {
		tradeIDs := grouping[groupID]

		tokens := map[string]bool{}
		var lastTime time.Time
		haveLast := false
		inOrder := true

		for _, tradeID := range tradeIDs {
			claimed[tradeID]++

			trade, ok := tradeByID[tradeID]
			if !ok {
				errs = append(errs, fmt.Sprintf("group %s references unknown trade id %s", groupID, tradeID))
				continue
			}

			if trade.TokenIn != "" {
				tokens[trade.TokenIn] = true
			}
			if trade.TokenOut != "" {
				tokens[trade.TokenOut] = true
			}

			if haveLast && trade.BlockTime.Before(lastTime) {
				inOrder = false
			}
			lastTime = trade.BlockTime
			haveLast = true
		}

		if len(tokens) > 2 {
			names := make([]string, 0, len(tokens))
			for token := range tokens {
				names = append(names, token)
			}
			sort.Strings(names)
			errs = append(errs, fmt.Sprintf("group %s spans %d tokens (%s); a position covers at most 2",
				groupID, len(tokens), strings.Join(names, ", ")))
		}

		if !inOrder {
			errs = append(errs, fmt.Sprintf("group %s trades are not in chronological order", groupID))
		}
	}

	// Missing and duplicated trade ids are distinct problems; report both.
	for _, t := range trades {
		if claimed[t.ID] == 0 {
			errs = append(errs, fmt.Sprintf("trade %s is not assigned to any group", t.ID))
		}
	}
	dupes := make([]string, 0)
	for id, n := range claimed {
		if n > 1 {
			dupes = append(dupes, id)
		}
	}
	sort.Strings(dupes)
	for _, id := range dupes {
		errs = append(errs, fmt.Sprintf("trade %s is assigned to multiple groups (%d times)", id, claimed[id]))
	}

	return &models.GroupingReport{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}
