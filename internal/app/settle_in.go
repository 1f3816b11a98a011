package app

import "concierge/internal/domain"

// Static instructional cards. They are not fetched and never fail.
var settleInCards = []domain.SettleInCard{
	{
		ID: "check-out", Title: "Check-Out", Icon: "clock",
		Lines: []string{
			"Check-out is at 10:00 AM.",
			"Start the dishwasher and leave used towels in the tub.",
			"Lock all doors and leave the keys on the kitchen counter.",
		},
	},
	{
		ID: "emergency", Title: "Emergency Contacts", Icon: "phone.fill",
		Lines: []string{
			"Emergency: 911",
			"Property manager: (904) 555-0142",
			"Non-emergency police: (904) 555-0190",
		},
	},
	{
		ID: "gate-code", Title: "Gate Code", Icon: "lock.open",
		Lines: []string{
			"Community gate: #2468",
			"Beach walkover gate: 1357",
		},
	},
	{
		ID: "trash", Title: "Trash Schedule", Icon: "trash",
		Lines: []string{
			"Trash pickup is Tuesday and Friday mornings.",
			"Recycling pickup is Friday.",
			"Roll the bins to the curb the night before.",
		},
	},
	{
		ID: "pool", Title: "Pool Rules", Icon: "figure.pool.swim",
		Lines: []string{
			"Pool hours are 8:00 AM to 10:00 PM.",
			"No glass in the pool area.",
			"Children must be supervised at all times.",
		},
	},
}

// SettleInCards returns a fresh copy of the static cards.
func SettleInCards() []domain.SettleInCard {
	out := make([]domain.SettleInCard, len(settleInCards))
	for i, c := range settleInCards {
		c.Lines = append([]string(nil), c.Lines...)
		out[i] = c
	}
	return out
}

// DefaultPropertySnapshot is the property slice before the first successful fetch.
func DefaultPropertySnapshot() domain.PropertySnapshot {
	return domain.PropertySnapshot{
		Guest:      domain.GuestProfile{Name: domain.DefaultGuestName},
		Categories: []domain.Category{},
		SettleIn:   SettleInCards(),
	}
}
