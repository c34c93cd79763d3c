package competition

import "github.com/amolv/contesthub/internal/models"

// transitions encodes the monotonic competition lifecycle. Completed and
// cancelled are terminal.
var transitions = map[string][]string{
	models.StatusUpcoming:  {models.StatusActive, models.StatusCancelled},
	models.StatusActive:    {models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted: nil,
	models.StatusCancelled: nil,
}

// canTransition reports whether a competition may move from one status to
// another. Keeping the current status is always allowed.
func canTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
