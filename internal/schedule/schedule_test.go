package schedule

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"
)

// Monday
var weekStart = time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return weekStart.AddDate(0, 0, n)
}

func TestFrequencyDays(t *testing.T) {
	tests := []struct {
		freq Frequency
		want []int
	}{
		{FrequencyDaily, []int{0, 1, 2, 3, 4, 5, 6}},
		{FrequencyWeekly, []int{0}},
		{2, []int{0, 3}},
		{3, []int{0, 2, 4}},
		{4, []int{0, 1, 3, 5}},
		{5, []int{0, 1, 2, 4, 5}},
		{6, []int{0, 1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		got := tt.freq.Days()
		if !slices.Equal(got, tt.want) {
			t.Errorf("%s days = %v, want %v", tt.freq, got, tt.want)
		}
	}
}

func TestFrequencyInvalid(t *testing.T) {
	for _, f := range []Frequency{-1, 7, 42} {
		if f.Valid() {
			t.Errorf("%d should be invalid", f)
		}
		if f.Count() != 0 {
			t.Errorf("%d count = %d, want 0", f, f.Count())
		}
	}
}

func TestDailyAndWeeklyTwoMembers(t *testing.T) {
	got, err := ScheduleWeek(Request{
		WeekStart: weekStart.Add(15 * time.Hour),
		MemberIDs: []int64{10, 20},
		Chores: []Chore{
			{ID: 1, Frequency: FrequencyDaily, Weight: 1},
			{ID: 2, Frequency: FrequencyWeekly, Weight: 3},
		},
		MaxPerMember: 5,
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	want := []Assignment{
		{ChoreID: 2, MemberID: 10, DueDate: day(0)},
		{ChoreID: 1, MemberID: 20, DueDate: day(0)},
		{ChoreID: 1, MemberID: 20, DueDate: day(1)},
		{ChoreID: 1, MemberID: 20, DueDate: day(2)},
		{ChoreID: 1, MemberID: 10, DueDate: day(3)},
		{ChoreID: 1, MemberID: 20, DueDate: day(4)},
		{ChoreID: 1, MemberID: 10, DueDate: day(5)},
		{ChoreID: 1, MemberID: 20, DueDate: day(6)},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d assignments, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ChoreID != want[i].ChoreID || got[i].MemberID != want[i].MemberID || !got[i].DueDate.Equal(want[i].DueDate) {
			t.Errorf("assignment[%d] = %+v, want %+v", i, got[i], want[i])
		}
		if got[i].Completed {
			t.Errorf("assignment[%d] should not be completed", i)
		}
	}

	loads := map[int64]int{}
	for _, a := range got {
		if a.ChoreID == 2 {
			loads[a.MemberID] += 3
		} else {
			loads[a.MemberID]++
		}
	}
	if loads[10] != 5 || loads[20] != 5 {
		t.Errorf("loads = %v, want 5 each", loads)
	}
}

func TestZeroChores(t *testing.T) {
	got, err := ScheduleWeek(Request{WeekStart: weekStart, MemberIDs: []int64{1, 2}})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestZeroMembersZeroChores(t *testing.T) {
	got, err := ScheduleWeek(Request{WeekStart: weekStart})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d assignments, want 0", len(got))
	}
}

func TestZeroMembersIsCapacityError(t *testing.T) {
	_, err := ScheduleWeek(Request{
		WeekStart: weekStart,
		Chores: []Chore{
			{ID: 1, Frequency: FrequencyWeekly, Weight: 1},
			{ID: 2, Frequency: FrequencyWeekly, Weight: 2},
			{ID: 3, Frequency: FrequencyDaily, Weight: 1},
		},
		MaxPerMember: 4,
	})
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, want *CapacityError", err)
	}
	if capErr.Unplaced != 9 || capErr.Required != 9 || capErr.Capacity != 0 {
		t.Errorf("capacity error = %+v", capErr)
	}
	if !errors.Is(err, ErrCapacity) {
		t.Error("expected errors.Is(err, ErrCapacity)")
	}
}

func TestSingleMemberOverCap(t *testing.T) {
	var chores []Chore
	for i := int64(1); i <= 5; i++ {
		chores = append(chores, Chore{ID: i, Frequency: FrequencyWeekly, Weight: 1})
	}
	got, err := ScheduleWeek(Request{WeekStart: weekStart, MemberIDs: []int64{7}, Chores: chores, MaxPerMember: 3})
	if got != nil {
		t.Errorf("expected no assignments on failure, got %d", len(got))
	}
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, want *CapacityError", err)
	}
	if capErr.Unplaced != 2 {
		t.Errorf("unplaced = %d, want 2", capErr.Unplaced)
	}
	if capErr.Capacity != 3 {
		t.Errorf("capacity = %d, want 3", capErr.Capacity)
	}
}

func TestSingleMemberUnderCap(t *testing.T) {
	got, err := ScheduleWeek(Request{
		WeekStart:    weekStart,
		MemberIDs:    []int64{7},
		Chores:       []Chore{{ID: 1, Frequency: 3, Weight: 2}},
		MaxPerMember: 3,
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d assignments, want 3", len(got))
	}
	for i, a := range got {
		if a.MemberID != 7 {
			t.Errorf("assignment[%d].MemberID = %d, want 7", i, a.MemberID)
		}
	}
	if !got[2].DueDate.Equal(day(4)) {
		t.Errorf("last due date = %v, want %v", got[2].DueDate, day(4))
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		field   string
		choreID int64
	}{
		{
			name: "duplicate member",
			req: Request{
				MemberIDs:    []int64{1, 2, 1},
				Chores:       []Chore{{ID: 1, Frequency: FrequencyWeekly, Weight: 1}},
				MaxPerMember: 2,
			},
			field: "member_ids",
		},
		{
			name: "zero weight",
			req: Request{
				MemberIDs:    []int64{1},
				Chores:       []Chore{{ID: 4, Frequency: FrequencyWeekly, Weight: 0}},
				MaxPerMember: 2,
			},
			field:   "weight",
			choreID: 4,
		},
		{
			name: "negative weight",
			req: Request{
				MemberIDs:    []int64{1},
				Chores:       []Chore{{ID: 5, Frequency: FrequencyDaily, Weight: -2}},
				MaxPerMember: 7,
			},
			field:   "weight",
			choreID: 5,
		},
		{
			name: "weight past bound",
			req: Request{
				MemberIDs:    []int64{1},
				Chores:       []Chore{{ID: 7, Frequency: FrequencyWeekly, Weight: MaxWeight + 1}},
				MaxPerMember: 2,
			},
			field:   "weight",
			choreID: 7,
		},
		{
			name: "unknown frequency",
			req: Request{
				MemberIDs:    []int64{1},
				Chores:       []Chore{{ID: 6, Frequency: 9, Weight: 1}},
				MaxPerMember: 7,
			},
			field:   "frequency",
			choreID: 6,
		},
		{
			name: "zero cap",
			req: Request{
				MemberIDs: []int64{1},
				Chores:    []Chore{{ID: 1, Frequency: FrequencyWeekly, Weight: 1}},
			},
			field: "max_per_member",
		},
		{
			name: "duplicate chore",
			req: Request{
				MemberIDs: []int64{1},
				Chores: []Chore{
					{ID: 3, Frequency: FrequencyWeekly, Weight: 1},
					{ID: 3, Frequency: FrequencyDaily, Weight: 1},
				},
				MaxPerMember: 10,
			},
			field:   "id",
			choreID: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.WeekStart = weekStart
			got, err := ScheduleWeek(tt.req)
			if got != nil {
				t.Errorf("expected nil assignments, got %d", len(got))
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("field = %q, want %q", cfgErr.Field, tt.field)
			}
			if cfgErr.ChoreID != tt.choreID {
				t.Errorf("chore id = %d, want %d", cfgErr.ChoreID, tt.choreID)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Error("expected errors.Is(err, ErrConfiguration)")
			}
			if errors.Is(err, ErrCapacity) {
				t.Error("config error should not match ErrCapacity")
			}
		})
	}
}

func TestZeroCapWithoutChoresIsValid(t *testing.T) {
	if _, err := ScheduleWeek(Request{WeekStart: weekStart, MemberIDs: []int64{1}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHeavierChoresPlacedFirstWithinDay(t *testing.T) {
	got, err := ScheduleWeek(Request{
		WeekStart: weekStart,
		MemberIDs: []int64{1, 2},
		Chores: []Chore{
			{ID: 1, Frequency: FrequencyWeekly, Weight: 1},
			{ID: 2, Frequency: FrequencyWeekly, Weight: 5},
			{ID: 3, Frequency: FrequencyWeekly, Weight: 3},
		},
		MaxPerMember: 3,
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	order := []int64{got[0].ChoreID, got[1].ChoreID, got[2].ChoreID}
	if !slices.Equal(order, []int64{2, 3, 1}) {
		t.Errorf("placement order = %v, want [2 3 1]", order)
	}
	// 5 -> member 1, 3 -> member 2, 1 -> member 2
	if got[2].MemberID != 2 {
		t.Errorf("light chore went to member %d, want 2", got[2].MemberID)
	}
}

func TestDueDatesIgnoreTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST starts Sunday March 8 2026.
	start := time.Date(2026, 3, 5, 21, 30, 0, 0, loc)
	got, err := ScheduleWeek(Request{
		WeekStart:    start,
		MemberIDs:    []int64{1},
		Chores:       []Chore{{ID: 1, Frequency: FrequencyDaily, Weight: 1}},
		MaxPerMember: 7,
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	for i, a := range got {
		if a.DueDate.Hour() != 0 || a.DueDate.Minute() != 0 {
			t.Errorf("assignment[%d] due %v is not midnight", i, a.DueDate)
		}
		if a.DueDate.Day() != 5+i {
			t.Errorf("assignment[%d] day = %d, want %d", i, a.DueDate.Day(), 5+i)
		}
	}
}

func TestExpand(t *testing.T) {
	occ, err := Expand(Chore{ID: 9, Frequency: 2, Weight: 1}, weekStart.Add(8*time.Hour))
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(occ) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(occ))
	}
	if occ[1].Day != 3 || !occ[1].DueDate.Equal(day(3)) {
		t.Errorf("second occurrence = %+v", occ[1])
	}

	if _, err := Expand(Chore{ID: 9, Frequency: -1, Weight: 1}, weekStart); !errors.Is(err, ErrConfiguration) {
		t.Errorf("err = %v, want configuration error", err)
	}
}

func TestScheduleWeekMatchesExpand(t *testing.T) {
	chores := []Chore{
		{ID: 1, Frequency: FrequencyDaily, Weight: 1},
		{ID: 2, Frequency: 3, Weight: 2},
		{ID: 3, Frequency: FrequencyWeekly, Weight: 1},
	}
	got, err := ScheduleWeek(Request{WeekStart: weekStart, MemberIDs: []int64{1, 2, 3}, Chores: chores, MaxPerMember: 5})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	dates := map[int64][]time.Time{}
	for _, a := range got {
		dates[a.ChoreID] = append(dates[a.ChoreID], a.DueDate)
	}
	for _, c := range chores {
		occs, err := Expand(c, weekStart)
		if err != nil {
			t.Fatalf("expand %d: %v", c.ID, err)
		}
		if len(dates[c.ID]) != len(occs) {
			t.Fatalf("chore %d: %d assignments, want %d", c.ID, len(dates[c.ID]), len(occs))
		}
		for i, occ := range occs {
			if !dates[c.ID][i].Equal(occ.DueDate) {
				t.Errorf("chore %d assignment %d due %v, want %v", c.ID, i, dates[c.ID][i], occ.DueDate)
			}
		}
	}
}

func TestRequiredOccurrencesAndMinPerMember(t *testing.T) {
	chores := []Chore{
		{ID: 1, Frequency: FrequencyDaily, Weight: 1},
		{ID: 2, Frequency: FrequencyWeekly, Weight: 2},
		{ID: 3, Frequency: 3, Weight: 1},
	}
	total, err := RequiredOccurrences(chores)
	if err != nil {
		t.Fatalf("required: %v", err)
	}
	if total != 11 {
		t.Errorf("total = %d, want 11", total)
	}

	minCap, err := MinPerMember(chores, 3)
	if err != nil {
		t.Fatalf("min per member: %v", err)
	}
	if minCap != 4 {
		t.Errorf("min = %d, want 4", minCap)
	}

	if n, _ := MinPerMember(chores, 0); n != 0 {
		t.Errorf("min with no members = %d, want 0", n)
	}

	if _, err := RequiredOccurrences([]Chore{{ID: 4, Frequency: 12, Weight: 1}}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("err = %v, want configuration error", err)
	}
}

func TestMinPerMemberIsSufficient(t *testing.T) {
	chores := []Chore{
		{ID: 1, Frequency: FrequencyDaily, Weight: 2},
		{ID: 2, Frequency: FrequencyDaily, Weight: 1},
		{ID: 3, Frequency: 4, Weight: 3},
	}
	members := []int64{1, 2, 3}
	minCap, err := MinPerMember(chores, len(members))
	if err != nil {
		t.Fatalf("min per member: %v", err)
	}
	if _, err := ScheduleWeek(Request{WeekStart: weekStart, MemberIDs: members, Chores: chores, MaxPerMember: minCap}); err != nil {
		t.Errorf("cap %d should be enough: %v", minCap, err)
	}
	if _, err := ScheduleWeek(Request{WeekStart: weekStart, MemberIDs: members, Chores: chores, MaxPerMember: minCap - 1}); !errors.Is(err, ErrCapacity) {
		t.Errorf("cap %d should fail with capacity error, got %v", minCap-1, err)
	}
}

func randomRequest(r *rand.Rand) Request {
	nMembers := 1 + r.IntN(5)
	members := make([]int64, nMembers)
	for i := range members {
		members[i] = int64(100 + i*7)
	}
	nChores := 1 + r.IntN(10)
	chores := make([]Chore, nChores)
	for i := range chores {
		chores[i] = Chore{
			ID:        int64(i + 1),
			Frequency: Frequency(r.IntN(7)),
			Weight:    1 + r.IntN(5),
		}
	}
	return Request{WeekStart: weekStart, MemberIDs: members, Chores: chores}
}

func TestScheduleProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for iter := 0; iter < 200; iter++ {
		req := randomRequest(r)
		total, _ := RequiredOccurrences(req.Chores)
		minCap, _ := MinPerMember(req.Chores, len(req.MemberIDs))
		req.MaxPerMember = minCap + r.IntN(3)

		got, err := ScheduleWeek(req)
		if err != nil {
			t.Fatalf("iter %d: schedule: %v", iter, err)
		}

		if len(got) != total {
			t.Errorf("iter %d: got %d assignments, want %d", iter, len(got), total)
		}

		counts := map[int64]int{}
		seen := map[int64]map[time.Time]bool{}
		for _, a := range got {
			counts[a.MemberID]++
			if a.DueDate.Before(weekStart) || a.DueDate.After(day(6)) {
				t.Errorf("iter %d: due date %v out of week", iter, a.DueDate)
			}
			if seen[a.ChoreID] == nil {
				seen[a.ChoreID] = map[time.Time]bool{}
			}
			if seen[a.ChoreID][a.DueDate] {
				t.Errorf("iter %d: chore %d twice on %v", iter, a.ChoreID, a.DueDate)
			}
			seen[a.ChoreID][a.DueDate] = true
		}
		for id, c := range counts {
			if c > req.MaxPerMember {
				t.Errorf("iter %d: member %d has %d assignments, cap %d", iter, id, c, req.MaxPerMember)
			}
		}

		again, err := ScheduleWeek(req)
		if err != nil {
			t.Fatalf("iter %d: second run: %v", iter, err)
		}
		if !slices.EqualFunc(got, again, func(a, b Assignment) bool {
			return a.ChoreID == b.ChoreID && a.MemberID == b.MemberID && a.DueDate.Equal(b.DueDate)
		}) {
			t.Errorf("iter %d: output is not deterministic", iter)
		}
	}
}

func TestFairnessBoundWithoutCap(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for iter := 0; iter < 200; iter++ {
		req := randomRequest(r)
		total, _ := RequiredOccurrences(req.Chores)
		req.MaxPerMember = total

		got, err := ScheduleWeek(req)
		if err != nil {
			t.Fatalf("iter %d: schedule: %v", iter, err)
		}

		weights := map[int64]int{}
		heaviest := 0
		for _, c := range req.Chores {
			weights[c.ID] = c.Weight
			heaviest = max(heaviest, c.Weight)
		}
		loads := map[int64]int{}
		for _, id := range req.MemberIDs {
			loads[id] = 0
		}
		for _, a := range got {
			loads[a.MemberID] += weights[a.ChoreID]
		}
		lo, hi := -1, 0
		for _, l := range loads {
			if lo < 0 || l < lo {
				lo = l
			}
			hi = max(hi, l)
		}
		if hi-lo > heaviest {
			t.Errorf("iter %d: load spread %d exceeds heaviest weight %d (%v)", iter, hi-lo, heaviest, loads)
		}
	}
}

func TestConfigErrorMessage(t *testing.T) {
	_, err := ScheduleWeek(Request{
		WeekStart:    weekStart,
		MemberIDs:    []int64{1},
		Chores:       []Chore{{ID: 12, Frequency: 8, Weight: 1}},
		MaxPerMember: 1,
	})
	want := "schedule config: chore 12: frequency: unrecognized value 8"
	if err == nil || err.Error() != want {
		t.Errorf("err = %v, want %q", err, want)
	}
}

func TestConfigErrorChore(t *testing.T) {
	_, err := ScheduleWeek(Request{
		WeekStart:    weekStart,
		MemberIDs:    []int64{1},
		Chores:       []Chore{{ID: 12, Frequency: FrequencyDaily, Weight: 0}},
		MaxPerMember: 7,
	})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want *ConfigError", err)
	}
	if id, ok := cfgErr.Chore(); !ok || id != 12 {
		t.Errorf("Chore() = %d, %v, want 12, true", id, ok)
	}

	_, err = ScheduleWeek(Request{
		WeekStart:    weekStart,
		MemberIDs:    []int64{1, 1},
		Chores:       []Chore{{ID: 12, Frequency: FrequencyDaily, Weight: 1}},
		MaxPerMember: 7,
	})
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want *ConfigError", err)
	}
	if _, ok := cfgErr.Chore(); ok {
		t.Error("duplicate member error should not name a chore")
	}
}
