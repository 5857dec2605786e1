package service

//go:generate mockgen -source=evaluator_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/agbru/besselj/internal/bessel"
	"github.com/agbru/besselj/internal/membrane"
)

// DefaultMaxOrder bounds |n| for requests reaching the service. The Miller
// descent costs O(n) and its starting order must stay far from integer
// overflow.
const DefaultMaxOrder = 10000

var (
	// ErrMaxOrderExceeded is returned when |n| exceeds the configured maximum.
	ErrMaxOrderExceeded = errors.New("maximum order exceeded")
)

// Service defines the interface for Bessel evaluation services.
// This abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// Evaluate computes J_n(x) with the named evaluator.
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - algoName: The registry name of the evaluator.
	//   - x: The real argument.
	//   - n: The integer order.
	//
	// Returns:
	//   - float64: The value of J_n(x).
	//   - error: An error if validation or evaluation fails.
	Evaluate(ctx context.Context, algoName string, x float64, n int) (float64, error)

	// Sample evaluates a membrane mode on its polar grid at time t.
	Sample(ctx context.Context, algoName string, cfg membrane.Config, t float64) (*membrane.Frame, error)
}

// EvaluatorService centralizes order validation and evaluator retrieval.
// Implements the Service interface.
type EvaluatorService struct {
	factory  bessel.EvaluatorFactory
	maxOrder int
}

// Ensure EvaluatorService implements Service interface.
var _ Service = (*EvaluatorService)(nil)

// NewEvaluatorService creates a new instance of EvaluatorService.
//
// Parameters:
//   - factory: The factory to retrieve evaluators from.
//   - maxOrder: The maximum allowed |n| (0 for no limit).
func NewEvaluatorService(factory bessel.EvaluatorFactory, maxOrder int) *EvaluatorService {
	return &EvaluatorService{
		factory:  factory,
		maxOrder: maxOrder,
	}
}

// MaxOrder returns the configured order limit.
func (s *EvaluatorService) MaxOrder() int {
	return s.maxOrder
}

func (s *EvaluatorService) checkOrder(n int) error {
	if s.maxOrder > 0 && (n > s.maxOrder || n < -s.maxOrder) {
		return fmt.Errorf("%w: |n| must be at most %d, got %d", ErrMaxOrderExceeded, s.maxOrder, n)
	}
	return nil
}

// Evaluate validates n, retrieves the requested evaluator and runs it.
func (s *EvaluatorService) Evaluate(ctx context.Context, algoName string, x float64, n int) (float64, error) {
	if err := s.checkOrder(n); err != nil {
		return 0, err
	}
	ev, err := s.factory.Get(algoName)
	if err != nil {
		return 0, err
	}
	return ev.Evaluate(ctx, x, n)
}

// Sample validates cfg, retrieves the requested evaluator and samples the
// membrane at time t.
func (s *EvaluatorService) Sample(ctx context.Context, algoName string, cfg membrane.Config, t float64) (*membrane.Frame, error) {
	ev, err := s.factory.Get(algoName)
	if err != nil {
		return nil, err
	}
	return membrane.Sample(ctx, cfg, ev, t)
}
