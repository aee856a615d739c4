package schedule

type memberLoad struct {
	id    int64
	load  int
	count int
}

// allocate places occurrences in order, each on the eligible member with the
// lowest load. Ties fall to the lower assignment count, then roster order.
func allocate(memberIDs []int64, maxPer int, pending []pendingOccurrence) ([]Assignment, error) {
	members := make([]memberLoad, len(memberIDs))
	for i, id := range memberIDs {
		members[i] = memberLoad{id: id}
	}

	out := make([]Assignment, 0, len(pending))
	for placed, occ := range pending {
		best := -1
		for i := range members {
			m := &members[i]
			if m.count >= maxPer {
				continue
			}
			if best < 0 || lighter(m, &members[best]) {
				best = i
			}
		}
		if best < 0 {
			return nil, &CapacityError{
				Required: len(pending),
				Capacity: maxPer * len(members),
				Unplaced: len(pending) - placed,
			}
		}

		chosen := &members[best]
		chosen.load += occ.weight
		chosen.count++
		out = append(out, Assignment{
			ChoreID:  occ.ChoreID,
			MemberID: chosen.id,
			DueDate:  occ.DueDate,
		})
	}
	return out, nil
}

// lighter reports whether a should be picked over b. Roster order is implied
// because candidates are scanned front to back and only replaced on a strict win.
func lighter(a, b *memberLoad) bool {
	if a.load != b.load {
		return a.load < b.load
	}
	return a.count < b.count
}
