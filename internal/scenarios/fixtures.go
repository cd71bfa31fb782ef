package scenarios

import (
	"time"

	"github.com/settleflow/reflow/internal/domain"
)

// All fixtures live in the week of Monday 2024-01-15 (UTC).
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

func weekdayHours(startHour, endHour int) []domain.HourSlot {
	slots := make([]domain.HourSlot, 0, 5)
	for dow := 1; dow <= 5; dow++ {
		slots = append(slots, domain.HourSlot{DayOfWeek: dow, StartHour: startHour, EndHour: endHour})
	}
	return slots
}

// delayCascade: fundTransfer -> marginCheck -> disbursement -> reconciliation
// on one SWIFT channel, Mon-Fri 8-16. The transfer was supposed to start at
// 9AM but starts at noon; everything downstream shifts.
func delayCascade() domain.Input {
	return domain.Input{
		Tasks: []domain.Task{
			{
				ID: "task-1", Reference: "STL-20240115-001", OrderID: "trade-1",
				ChannelID: "ch-swift", StartTime: at(15, 12, 0), EndTime: at(15, 13, 0),
				ProcessingMinutes: 60, DependsOn: []string{}, Type: domain.TaskFundTransfer,
			},
			{
				ID: "task-2", Reference: "STL-20240115-002", OrderID: "trade-1",
				ChannelID: "ch-swift", StartTime: at(15, 10, 0), EndTime: at(15, 11, 0),
				ProcessingMinutes: 60, DependsOn: []string{"task-1"}, Type: domain.TaskMarginCheck,
			},
			{
				ID: "task-3", Reference: "STL-20240115-003", OrderID: "trade-1",
				ChannelID: "ch-swift", StartTime: at(15, 11, 0), EndTime: at(15, 12, 30),
				ProcessingMinutes: 90, DependsOn: []string{"task-2"}, Type: domain.TaskDisbursement,
			},
			{
				ID: "task-4", Reference: "STL-20240115-004", OrderID: "trade-1",
				ChannelID: "ch-swift", StartTime: at(15, 12, 30), EndTime: at(15, 13, 0),
				ProcessingMinutes: 30, DependsOn: []string{"task-3"}, Type: domain.TaskReconciliation,
			},
		},
		Channels: []domain.Channel{
			{ID: "ch-swift", Name: "SWIFT", OperatingHours: weekdayHours(8, 16)},
		},
		Orders: []domain.Order{
			{ID: "trade-1", Number: "TO-20240115-001", InstrumentID: "AAPL", Quantity: 500, Deadline: at(16, 16, 0)},
		},
	}
}

// blackout: a single 120-min task starting Monday 15:00 on a Mon-Fri 8-16
// channel with a Tuesday 8-9 blackout. One hour runs Monday, the blackout is
// skipped, the second hour runs Tuesday 9-10.
func blackout() domain.Input {
	return domain.Input{
		Tasks: []domain.Task{
			{
				ID: "task-1", Reference: "STL-20240115-010", OrderID: "trade-2",
				ChannelID: "ch-fedwire", StartTime: at(15, 15, 0), EndTime: at(15, 17, 0),
				ProcessingMinutes: 120, DependsOn: []string{}, Type: domain.TaskFundTransfer,
			},
		},
		Channels: []domain.Channel{
			{
				ID: "ch-fedwire", Name: "Fedwire", OperatingHours: weekdayHours(8, 16),
				Blackouts: []domain.Blackout{
					{StartTime: at(16, 8, 0), EndTime: at(16, 9, 0), Reason: "Fedwire scheduled maintenance"},
				},
			},
		},
		Orders: []domain.Order{
			{ID: "trade-2", Number: "TO-20240115-002", InstrumentID: "MSFT", Quantity: 200, Deadline: at(17, 16, 0)},
		},
	}
}

// multiConstraint: B depends on A and its earliest slot falls in a blackout;
// C has no dependencies but queues behind B on the shared channel.
func multiConstraint() domain.Input {
	return domain.Input{
		Tasks: []domain.Task{
			{
				ID: "task-mc-1", Reference: "STL-20240115-MC1", OrderID: "trade-mc",
				ChannelID: "ch-fedwire-mc", StartTime: at(15, 8, 0), EndTime: at(15, 9, 0),
				ProcessingMinutes: 60, DependsOn: []string{}, Type: domain.TaskComplianceScreen,
			},
			{
				ID: "task-mc-2", Reference: "STL-20240115-MC2", OrderID: "trade-mc",
				ChannelID: "ch-fedwire-mc", StartTime: at(15, 9, 0), EndTime: at(15, 10, 0),
				ProcessingMinutes: 60, DependsOn: []string{"task-mc-1"}, Type: domain.TaskFundTransfer,
			},
			{
				ID: "task-mc-3", Reference: "STL-20240115-MC3", OrderID: "trade-mc",
				ChannelID: "ch-fedwire-mc", StartTime: at(15, 9, 30), EndTime: at(15, 10, 30),
				ProcessingMinutes: 60, DependsOn: []string{}, Type: domain.TaskDisbursement,
			},
		},
		Channels: []domain.Channel{
			{
				ID: "ch-fedwire-mc", Name: "Fedwire-MC", OperatingHours: weekdayHours(8, 16),
				Blackouts: []domain.Blackout{
					{StartTime: at(15, 9, 0), EndTime: at(15, 10, 0), Reason: "System maintenance"},
				},
			},
		},
		Orders: []domain.Order{
			{ID: "trade-mc", Number: "TO-20240115-MC", InstrumentID: "GOOGL", Quantity: 300, Deadline: at(16, 16, 0)},
		},
	}
}

// channelContention: three independent 90-min tasks requesting 8:00, 8:30
// and 9:00 on one channel. Greedy placement in original-start order yields
// 8:00-9:30, 9:30-11:00, 11:00-12:30.
func channelContention() domain.Input {
	return domain.Input{
		Tasks: []domain.Task{
			{
				ID: "task-cc-1", Reference: "STL-20240115-CC1", OrderID: "trade-cc-1",
				ChannelID: "ch-ach", StartTime: at(15, 8, 0), EndTime: at(15, 9, 30),
				ProcessingMinutes: 90, DependsOn: []string{}, Type: domain.TaskFundTransfer,
			},
			{
				ID: "task-cc-2", Reference: "STL-20240115-CC2", OrderID: "trade-cc-2",
				ChannelID: "ch-ach", StartTime: at(15, 8, 30), EndTime: at(15, 10, 0),
				ProcessingMinutes: 90, DependsOn: []string{}, Type: domain.TaskMarginCheck,
			},
			{
				ID: "task-cc-3", Reference: "STL-20240115-CC3", OrderID: "trade-cc-3",
				ChannelID: "ch-ach", StartTime: at(15, 9, 0), EndTime: at(15, 10, 30),
				ProcessingMinutes: 90, DependsOn: []string{}, Type: domain.TaskDisbursement,
			},
		},
		Channels: []domain.Channel{
			{ID: "ch-ach", Name: "ACH", OperatingHours: weekdayHours(8, 16)},
		},
		Orders: []domain.Order{
			{ID: "trade-cc-1", Number: "TO-20240115-CC1", InstrumentID: "AAPL", Quantity: 100, Deadline: at(16, 16, 0)},
			{ID: "trade-cc-2", Number: "TO-20240115-CC2", InstrumentID: "MSFT", Quantity: 200, Deadline: at(16, 16, 0)},
			{ID: "trade-cc-3", Number: "TO-20240115-CC3", InstrumentID: "GOOGL", Quantity: 150, Deadline: at(16, 16, 0)},
		},
	}
}

// circularDependency: A depends on B and B depends on A.
func circularDependency() domain.Input {
	return domain.Input{
		Tasks: []domain.Task{
			{
				ID: "task-circ-1", Reference: "STL-CIRC-001", OrderID: "trade-circ",
				ChannelID: "ch-swift-imp", StartTime: at(15, 9, 0), EndTime: at(15, 10, 0),
				ProcessingMinutes: 60, DependsOn: []string{"task-circ-2"}, Type: domain.TaskFundTransfer,
			},
			{
				ID: "task-circ-2", Reference: "STL-CIRC-002", OrderID: "trade-circ",
				ChannelID: "ch-swift-imp", StartTime: at(15, 10, 0), EndTime: at(15, 11, 0),
				ProcessingMinutes: 60, DependsOn: []string{"task-circ-1"}, Type: domain.TaskMarginCheck,
			},
		},
		Channels: []domain.Channel{
			{ID: "ch-swift-imp", Name: "SWIFT-IMP", OperatingHours: weekdayHours(8, 16)},
		},
		Orders: []domain.Order{
			{ID: "trade-circ", Number: "TO-CIRC", InstrumentID: "TSLA", Quantity: 50, Deadline: at(16, 16, 0)},
		},
	}
}

// regulatoryHoldConflict: a pinned hold 10:00-12:00 overlapping an 11:00-11:30
// blackout. The hold is left unmoved and the overlap is reported.
func regulatoryHoldConflict() domain.Input {
	return domain.Input{
		Tasks: []domain.Task{
			{
				ID: "task-rh-1", Reference: "STL-RH-001", OrderID: "trade-rh",
				ChannelID: "ch-swift-rh", StartTime: at(15, 10, 0), EndTime: at(15, 12, 0),
				ProcessingMinutes: 120, Pinned: true, DependsOn: []string{}, Type: domain.TaskRegulatoryHold,
			},
		},
		Channels: []domain.Channel{
			{
				ID: "ch-swift-rh", Name: "SWIFT-RH", OperatingHours: weekdayHours(8, 16),
				Blackouts: []domain.Blackout{
					{StartTime: at(15, 11, 0), EndTime: at(15, 11, 30), Reason: "Regulatory system update"},
				},
			},
		},
		Orders: []domain.Order{
			{ID: "trade-rh", Number: "TO-RH", InstrumentID: "AMZN", Quantity: 75, Deadline: at(16, 16, 0)},
		},
	}
}

// deadlineBreach: a late-starting chain on a channel with limited hours
// pushes the final reconciliation past the order's T+1 noon deadline.
func deadlineBreach() domain.Input {
	return domain.Input{
		Tasks: []domain.Task{
			{
				ID: "task-dl-1", Reference: "STL-DL-001", OrderID: "trade-dl",
				ChannelID: "ch-swift-dl", StartTime: at(15, 14, 0), EndTime: at(15, 16, 0),
				ProcessingMinutes: 120, DependsOn: []string{}, Type: domain.TaskComplianceScreen,
			},
			{
				ID: "task-dl-2", Reference: "STL-DL-002", OrderID: "trade-dl",
				ChannelID: "ch-swift-dl", StartTime: at(15, 10, 0), EndTime: at(15, 14, 0),
				ProcessingMinutes: 240, DependsOn: []string{"task-dl-1"}, Type: domain.TaskFundTransfer,
			},
			{
				ID: "task-dl-3", Reference: "STL-DL-003", OrderID: "trade-dl",
				ChannelID: "ch-swift-dl", StartTime: at(15, 14, 0), EndTime: at(15, 16, 0),
				ProcessingMinutes: 120, DependsOn: []string{"task-dl-2"}, Type: domain.TaskReconciliation,
			},
		},
		Channels: []domain.Channel{
			{ID: "ch-swift-dl", Name: "SWIFT-DL", OperatingHours: weekdayHours(8, 16)},
		},
		Orders: []domain.Order{
			{ID: "trade-dl", Number: "TO-DL", InstrumentID: "NVDA", Quantity: 400, Deadline: at(16, 12, 0)},
		},
	}
}
