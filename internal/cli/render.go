package cli

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ashureev/superset/internal/domain"
	"github.com/ashureev/superset/internal/workout"
)

func renderStatus(w io.Writer, st domain.Status) {
	fmt.Fprintf(w, "Workouts this week: %d/%d\n", st.WorkoutsCompletedThisWeek, st.MaxWorkoutsPerWeek)
	fmt.Fprintf(w, "Fatigue: %d%% (%s)\n", int(math.Round(st.MaxFatigue()*100)), st.FatigueLabel())
	if len(st.FatigueScores) > 0 {
		coaches := make([]string, 0, len(st.FatigueScores))
		for c := range st.FatigueScores {
			coaches = append(coaches, c)
		}
		sort.Strings(coaches)
		for _, c := range coaches {
			fmt.Fprintf(w, "  %-12s %d%%\n", c, int(math.Round(st.FatigueScores[c]*100)))
		}
	}
	if st.SelectedPersona != "" {
		fmt.Fprintf(w, "Coach: %s\n", st.SelectedPersona)
	}
}

func renderHistory(w io.Writer, entries []workout.HistoryEntry) {
	sum := workout.SummarizeHistory(entries)
	fmt.Fprintf(w, "Total workouts: %d  This week: %d\n", sum.Total, sum.ThisWeek)
	if len(entries) == 0 {
		fmt.Fprintln(w, "No workouts yet.")
		return
	}
	for i, e := range entries {
		names := make([]string, 0, len(e.Exercises))
		for _, ex := range e.Exercises {
			names = append(names, ex.Name)
		}
		fmt.Fprintf(w, "%2d. [%s] %s\n", i+1, e.Coach, strings.Join(names, ", "))
	}
}

func renderWorkout(w io.Writer, wo domain.WorkoutSnapshot) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("== %s (%s) ==", wo.Title, wo.Coach)))
	for i, ex := range wo.Exercises {
		line := fmt.Sprintf("%2d. %s", i+1, ex.Name)
		if ex.Sets > 0 {
			line += fmt.Sprintf("  %d x %s", ex.Sets, ex.Reps)
		} else {
			line += "  " + ex.Reps
		}
		if ex.RPE != nil {
			line += fmt.Sprintf("  RPE %g", *ex.RPE)
		}
		if ex.Notes != nil {
			line += "  (" + *ex.Notes + ")"
		}
		fmt.Fprintln(w, line)
	}
	if f, ok := wo.FatigueDisplay(); ok {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Fatigue: %d/10", f)))
	}
}

func renderEntry(w io.Writer, e domain.ChatEntry) {
	if e.IsUser {
		return
	}
	who := e.Coach
	if who == "" {
		who = "coach"
	}
	fmt.Fprintf(w, "%s %s\n", coachTag(who), e.Content)
}
