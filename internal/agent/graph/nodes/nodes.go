package nodes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitpal-core/agent/internal/agent/model"
	errx "github.com/fitpal-core/agent/internal/core/error"
	logx "github.com/fitpal-core/agent/pkg/logger"
)

// NodeFn is the signature every processing node implements. Nodes mutate the
// session state in place and run strictly sequentially within a turn.
type NodeFn func(ctx context.Context, s *model.SessionState) error

// NewInputParserNode creates the input_parser node. It classifies the latest
// user message, populates pending items for LOG_FOOD and resolves the date
// context. A confirmation left hanging from a previous turn is implicitly
// cancelled when the new message carries any other intent.
func NewInputParserNode(parser model.IntakeParser, historyMaxTurns int) NodeFn {
	return func(ctx context.Context, s *model.SessionState) error {
		message := latestUserContent(s.Messages)
		if message == "" {
			return errx.Parsing(fmt.Errorf("turn has no user message"))
		}
		history := trimTail(s.Messages[:len(s.Messages)-1], historyMaxTurns)

		ev, err := parser.Parse(ctx, history, message)
		if err != nil {
			return err
		}

		// Per-turn fields reset only after a successful parse, so a parsing
		// failure leaves the previous state untouched.
		s.ResponseText = ""
		s.ProcessingResults = nil
		s.LastAction = ev.Action

		if s.AwaitingConfirmation && ev.Action != model.ActionConfirmEstimation {
			logx.Debug().
				Str("thread_id", s.ThreadID).
				Str("action", string(ev.Action)).
				Msg("New intent while awaiting confirmation, cancelling estimated item")
			s.AwaitingConfirmation = false
			s.CurrentItem = nil
			s.SelectionResult = nil
			s.SearchResults = nil
		}

		switch ev.Action {
		case model.ActionLogFood:
			s.PendingFoodItems = ev.Items
			s.CurrentItem = nil
			s.SelectionResult = nil
			s.SearchResults = nil
			s.CurrentDate = resolveDate(ev.TargetDate)
		case model.ActionQueryDailyStats:
			s.CurrentDate = resolveDate(ev.TargetDate)
		case model.ActionConfirmEstimation, model.ActionChitchat:
			// Nothing beyond the action itself.
		}

		logx.Debug().
			Str("thread_id", s.ThreadID).
			Str("action", string(ev.Action)).
			Int("items", len(ev.Items)).
			Msg("Parsed user message")
		return nil
	}
}

// NewFoodSearchNode creates the food_search node. It pops the FIFO head of
// pending items into the in-flight slot when nothing is mid-iteration, then
// queries the food database. An empty result set is valid and signals the
// estimation path. A lookup failure restores the popped item to the head of
// the queue so no pop is lost.
func NewFoodSearchNode(db model.FoodDatabase) NodeFn {
	return func(ctx context.Context, s *model.SessionState) error {
		if s.CurrentItem == nil {
			if len(s.PendingFoodItems) == 0 {
				return errx.Internal("food_search entered with no pending items")
			}
			item := s.PendingFoodItems[0]
			s.PendingFoodItems = s.PendingFoodItems[1:]
			s.CurrentItem = &item
		}

		s.SearchResults = nil
		results, err := db.Search(ctx, s.CurrentItem.FoodName)
		if err != nil {
			s.PendingFoodItems = append([]model.FoodIntakeItem{*s.CurrentItem}, s.PendingFoodItems...)
			s.CurrentItem = nil
			return errx.Lookup(err)
		}
		s.SearchResults = results

		logx.Debug().
			Str("thread_id", s.ThreadID).
			Str("food", s.CurrentItem.FoodName).
			Int("candidates", len(results)).
			Msg("Food search complete")
		return nil
	}
}

// NewAgentSelectionNode creates the agent_selection node. The selection
// collaborator owns the tie-break policy; this node only enforces the
// status/candidate contract and never re-ranks. A contract violation restores
// the in-flight item to the head of the queue so no pop is lost.
func NewAgentSelectionNode(selector model.FoodSelector) NodeFn {
	return func(ctx context.Context, s *model.SessionState) error {
		if s.CurrentItem == nil {
			return errx.Internal("agent_selection entered with no item in flight")
		}

		res, err := selector.Select(ctx, *s.CurrentItem, s.SearchResults)
		if err == nil {
			err = checkSelectionContract(res, s.SearchResults)
		}
		if err != nil {
			s.PendingFoodItems = append([]model.FoodIntakeItem{*s.CurrentItem}, s.PendingFoodItems...)
			s.CurrentItem = nil
			s.SearchResults = nil
			s.SelectionResult = nil
			return err
		}

		s.SelectionResult = res
		logx.Debug().
			Str("thread_id", s.ThreadID).
			Str("status", string(res.Status)).
			Msg("Selection complete")
		return nil
	}
}

// checkSelectionContract rejects selection results that are inconsistent
// with the candidate set: empty candidates demand an estimation, non-empty
// candidates forbid one, and a selected id must come from the set.
func checkSelectionContract(res *model.FoodSelectionResult, candidates []model.FoodCandidate) error {
	if len(candidates) == 0 {
		if res.Status != model.StatusEstimated {
			return errx.Validation(fmt.Errorf("status %s with empty search results", res.Status))
		}
		return nil
	}
	switch res.Status {
	case model.StatusEstimated:
		return errx.Validation(fmt.Errorf("ESTIMATED despite %d candidates", len(candidates)))
	case model.StatusSelected:
		for _, c := range candidates {
			if res.FoodID != nil && c.ID == *res.FoodID {
				return nil
			}
		}
		return errx.Validation(fmt.Errorf("selected food_id not in candidate set"))
	case model.StatusNoMatch:
		return nil
	}
	return errx.Validation(fmt.Errorf("unknown selection status %q", res.Status))
}

// NewConfirmGateNode creates the confirm_gate node, the suspension point for
// estimated items. First entry arms the gate and stages the confirmation
// prompt; re-entry with a CONFIRM_ESTIMATION intent disarms it so routing
// proceeds straight to calculate_log with the estimate reused verbatim.
func NewConfirmGateNode() NodeFn {
	return func(ctx context.Context, s *model.SessionState) error {
		if s.CurrentItem == nil || s.SelectionResult == nil {
			return errx.Internal("confirm_gate entered with no estimated item in flight")
		}
		if s.SelectionResult.Status != model.StatusEstimated {
			return errx.Internal("confirm_gate entered with status %s", s.SelectionResult.Status)
		}

		if !s.AwaitingConfirmation {
			s.AwaitingConfirmation = true
			s.ResponseText = confirmationPrompt(s.CurrentItem, s.SelectionResult)
			logx.Debug().
				Str("thread_id", s.ThreadID).
				Str("food", s.CurrentItem.FoodName).
				Msg("Suspending for estimation confirmation")
			return nil
		}

		if s.LastAction != model.ActionConfirmEstimation {
			return errx.Internal("confirm_gate resumed with action %s", s.LastAction)
		}
		s.AwaitingConfirmation = false
		logx.Debug().
			Str("thread_id", s.ThreadID).
			Str("food", s.CurrentItem.FoodName).
			Msg("Estimation confirmed")
		return nil
	}
}

func confirmationPrompt(item *model.FoodIntakeItem, res *model.FoodSelectionResult) string {
	est := res.EstimatedMacros()
	scaled := est.Scale(item.AmountGrams / 100.0)
	return fmt.Sprintf(
		"I couldn't find %q in the food database, so I estimated it: "+
			"%.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat for %.0fg. "+
			"Should I log it?",
		item.FoodName, scaled.Calories, scaled.Protein, scaled.Carbs, scaled.Fat,
		item.AmountGrams)
}

// NewCalculateLogNode creates the calculate_log node. It performs exactly one
// log write per resolved item (none for NO_MATCH), scales macros by
// amount/100, refreshes daily totals read-after-write and clears the
// in-flight markers so the loop controller can pop the next item.
func NewCalculateLogNode(logs model.LogStore) NodeFn {
	return func(ctx context.Context, s *model.SessionState) error {
		item := s.CurrentItem
		sel := s.SelectionResult
		if item == nil || sel == nil {
			return errx.Internal("calculate_log entered with no resolved item")
		}

		switch sel.Status {
		case model.StatusNoMatch:
			s.ProcessingResults = append(s.ProcessingResults, model.ProcessingResult{
				FoodName:    item.FoodName,
				AmountGrams: item.AmountGrams,
				Status:      model.ProcessingSkipped,
				Message:     fmt.Sprintf("no match found for %q", item.FoodName),
			})

		case model.StatusSelected:
			cand := findCandidate(s.SearchResults, sel.FoodID)
			if cand == nil {
				return errx.Internal("selected candidate missing from search results")
			}
			scaled := cand.PerHundredGrams.Scale(item.AmountGrams / 100.0)
			if err := writeEntry(ctx, logs, s, model.LogRecord{
				ID:           uuid.NewString(),
				FoodID:       sel.FoodID,
				FoodName:     cand.Name,
				AmountGrams:  item.AmountGrams,
				Macros:       scaled,
				MealType:     item.MealType,
				OriginalText: item.OriginalText,
				Timestamp:    time.Now().UTC(),
			}); err != nil {
				return err
			}
			s.ProcessingResults = append(s.ProcessingResults, model.ProcessingResult{
				FoodName:    cand.Name,
				AmountGrams: item.AmountGrams,
				Status:      model.ProcessingLogged,
				Calories:    scaled.Calories,
				Message:     fmt.Sprintf("logged %s (%.0f kcal)", cand.Name, scaled.Calories),
			})

		case model.StatusEstimated:
			// Reached only through the disarmed gate; the estimate is reused
			// verbatim, never re-derived.
			scaled := sel.EstimatedMacros().Scale(item.AmountGrams / 100.0)
			if err := writeEntry(ctx, logs, s, model.LogRecord{
				ID:           uuid.NewString(),
				FoodName:     item.FoodName,
				AmountGrams:  item.AmountGrams,
				Macros:       scaled,
				MealType:     item.MealType,
				OriginalText: item.OriginalText,
				Estimated:    true,
				Timestamp:    time.Now().UTC(),
			}); err != nil {
				return err
			}
			s.ProcessingResults = append(s.ProcessingResults, model.ProcessingResult{
				FoodName:    item.FoodName,
				AmountGrams: item.AmountGrams,
				Status:      model.ProcessingLogged,
				Calories:    scaled.Calories,
				Estimated:   true,
				Message:     fmt.Sprintf("logged %s (estimated, %.0f kcal)", item.FoodName, scaled.Calories),
			})

		default:
			return errx.Internal("calculate_log entered with status %s", sel.Status)
		}

		s.CurrentItem = nil
		s.SelectionResult = nil
		s.SearchResults = nil
		return nil
	}
}

func writeEntry(ctx context.Context, logs model.LogStore, s *model.SessionState, rec model.LogRecord) error {
	if s.CurrentDate == "" {
		s.CurrentDate = model.Today()
	}
	if _, err := logs.CreateLogEntry(ctx, s.CurrentDate, rec); err != nil {
		if errx.KindOf(err) == errx.KindInternal {
			err = errx.Persistence(err)
		}
		return err
	}
	totals, err := logs.DailyTotals(ctx, s.CurrentDate)
	if err != nil {
		if errx.KindOf(err) == errx.KindInternal {
			err = errx.Lookup(err)
		}
		return err
	}
	s.DailyTotals = totals

	logx.Debug().
		Str("thread_id", s.ThreadID).
		Str("food", rec.FoodName).
		Float64("amount_g", rec.AmountGrams).
		Float64("calories", rec.Macros.Calories).
		Bool("estimated", rec.Estimated).
		Msg("Log entry written")
	return nil
}

func findCandidate(candidates []model.FoodCandidate, id *int64) *model.FoodCandidate {
	if id == nil {
		return nil
	}
	for i := range candidates {
		if candidates[i].ID == *id {
			return &candidates[i]
		}
	}
	return nil
}

// NewStatsLookupNode creates the stats_lookup node. It reads logs and totals
// for the date in context (defaulting to today) and formats the summary.
// Pending items are never touched here.
func NewStatsLookupNode(logs model.LogStore) NodeFn {
	return func(ctx context.Context, s *model.SessionState) error {
		date := s.CurrentDate
		if date == "" {
			date = model.Today()
			s.CurrentDate = date
		}

		records, err := logs.GetLogsByDate(ctx, date)
		if err != nil {
			if errx.KindOf(err) == errx.KindInternal {
				err = errx.Lookup(err)
			}
			return err
		}
		totals, err := logs.DailyTotals(ctx, date)
		if err != nil {
			if errx.KindOf(err) == errx.KindInternal {
				err = errx.Lookup(err)
			}
			return err
		}
		s.DailyTotals = totals
		s.ResponseText = formatStats(date, records, totals)
		return nil
	}
}
