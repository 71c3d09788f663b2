package simulator

import "DoubleDown/internal/model"

// Report is the full output of an untimed run.
type Report struct {
	State  model.State   `json:"state"`
	Points []model.Point `json:"points"`
	Steps  []model.Step  `json:"steps"`
	Result *model.Result `json:"result"`
}

// Run replays the whole series without a timer.
func Run(bars []model.Bar, params model.Params) (*Report, error) {
	sim := New()
	if _, err := sim.Start(bars, params); err != nil {
		return nil, err
	}
	for {
		_, done, err := sim.Step()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	res, err := sim.Finish()
	if err != nil {
		return nil, err
	}
	return &Report{
		State:  sim.State(),
		Points: sim.Points(),
		Steps:  sim.Steps(),
		Result: res,
	}, nil
}
