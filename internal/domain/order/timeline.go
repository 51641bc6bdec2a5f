package order

import "time"

// TimelineStep is one stage of the customer-facing order timeline
type TimelineStep struct {
	Status    Status
	Label     string
	Completed bool
	Current   bool
	At        *time.Time
}

var stepLabels = map[Status]string{
	StatusPending:    "Order placed",
	StatusConfirmed:  "Order confirmed",
	StatusProcessing: "Processing",
	StatusShipped:    "Shipped",
	StatusDelivered:  "Delivered",
	StatusCancelled:  "Cancelled",
}

// Label returns the human readable label of a status
func (s Status) Label() string {
	if l, ok := stepLabels[s]; ok {
		return l
	}
	return string(s)
}

// Timeline maps the order status onto the fulfilment steps. Skipped
// stages count as completed without a timestamp. A cancelled order
// shows the stages it reached followed by the cancellation.
func (o *Order) Timeline() []TimelineStep {
	created := o.CreatedAt
	stamps := map[Status]*time.Time{
		StatusPending:    &created,
		StatusConfirmed:  o.ConfirmedAt,
		StatusProcessing: o.ProcessingAt,
		StatusShipped:    o.ShippedAt,
		StatusDelivered:  o.DeliveredAt,
	}

	if o.Status == StatusCancelled {
		reached := 0
		for i, s := range progression {
			if stamps[s] != nil {
				reached = i
			}
		}
		steps := make([]TimelineStep, 0, reached+2)
		for _, s := range progression[:reached+1] {
			steps = append(steps, TimelineStep{Status: s, Label: s.Label(), Completed: true, At: stamps[s]})
		}
		return append(steps, TimelineStep{
			Status:    StatusCancelled,
			Label:     StatusCancelled.Label(),
			Completed: true,
			Current:   true,
			At:        o.CancelledAt,
		})
	}

	current := o.Status.rank()
	steps := make([]TimelineStep, len(progression))
	for i, s := range progression {
		steps[i] = TimelineStep{
			Status:    s,
			Label:     s.Label(),
			Completed: i <= current,
			Current:   i == current,
			At:        stamps[s],
		}
	}
	return steps
}
