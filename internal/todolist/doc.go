// Package todolist is the task-tracking domain core: the TodoList aggregate,
// its Item entities and Progression value objects, the composable
// specification predicates, and the Result outcome type the aggregate
// reports rule checks through.
//
// Domain Purity: this package contains only pure domain logic with no I/O,
// no context.Context, and no time.Now() calls. Time is always received as a
// parameter from the application layer.
//
// Concurrency: a TodoList instance assumes a single writer. Callers (the
// repository/service layer) must serialize mutations to the same logical
// item set; invoking gate methods concurrently on one instance without
// external synchronization is undefined behavior.
package todolist
