package download

// Package download implements the strategy orchestration on top of an
// extraction backend: candidate selector strategies are executed in order,
// completed attempts are classified, and failed or unusable attempts fall
// back to the next candidate. Progress propagation is throttled and
// cancellation is cooperative.
