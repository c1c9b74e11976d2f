package services

import (
	"fmt"

	"github.com/jakechorley/turns/internal/config"
	"github.com/jakechorley/turns/pkg/core/scheduler"
	"github.com/jakechorley/turns/pkg/core/scheduler/algorithms"
)

// AlgorithmFromConfig constructs the configured scheduling algorithm
func AlgorithmFromConfig(algo *config.AlgoConfig) (scheduler.Algorithm, error) {
	switch {
	case algo.RoundRobin != nil:
		return algorithms.NewRoundRobin(algo.RoundRobin.TurnLengthDays)

	case algo.Greedy != nil:
		return algorithms.NewGreedy(algo.Greedy.TurnLengthDays, algo.Greedy.PreferenceWeight)

	case algo.Balanced != nil:
		return algorithms.NewBalanced(algo.Balanced.MinTurnDays, algo.Balanced.MaxTurnDays)

	default:
		return nil, fmt.Errorf("%w: no algorithm configured", scheduler.ErrInvalidConfig)
	}
}
