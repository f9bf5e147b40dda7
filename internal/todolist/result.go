package todolist

// Result is the two-case outcome used at the aggregate's public boundary:
// success, optionally carrying a value, or failure carrying a rule error
// with a non-empty description. Expected business failures travel this way;
// nothing in the aggregate panics or returns a bare error for them.
//
// Constructing a contradictory result (a failure without a description) is a
// programming error and panics instead of silently normalizing.
type Result struct {
	value any
	err   *RuleError
}

// Success returns a successful outcome carrying no value.
func Success() Result {
	return Result{}
}

// SuccessWith returns a successful outcome carrying a value.
func SuccessWith(value any) Result {
	return Result{value: value}
}

// Failure returns a failed outcome carrying the violated rule.
func Failure(err *RuleError) Result {
	if err == nil {
		panic("todolist: failure result requires a rule error")
	}
	if err.Description == "" {
		panic("todolist: failure result requires a non-empty description")
	}
	return Result{err: err}
}

// IsSuccess reports whether the operation mutated (or read) as requested.
func (r Result) IsSuccess() bool {
	return r.err == nil
}

// IsFailure reports whether a rule rejected the operation.
func (r Result) IsFailure() bool {
	return r.err != nil
}

// Value returns the success payload, nil when none was attached.
func (r Result) Value() any {
	return r.value
}

// RuleError returns the violated rule for failures and nil for successes.
func (r Result) RuleError() *RuleError {
	return r.err
}

// Error returns the failure description, or the empty string for successes.
func (r Result) Error() string {
	if r.err == nil {
		return ""
	}
	return r.err.Description
}
