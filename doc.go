// Package actionstack provides a transactional undo/redo engine for
// document editing.
//
// A Stack records executed operations as reversible units and lets callers
// reverse or reapply them as whole tasks.
//
// Overview
//
//  1. Implement Action for each kind of reversible operation, or build one
//     from closures with NewActionFunc. NewViewAction covers UI-only changes
//     and RecordWrite covers writes to a Store.
//  2. Give each document its own Stack (NewStack, or Registry.Open).
//  3. Wrap every user operation in BeginTask/EndTask and register each
//     applied action with AddAction. Nested pairs fold into one task.
//  4. Drive the history with Undo and Redo, which return an UndoResult the
//     caller can branch on.
//  5. Use Mark with CollapseToMark or DiscardToMark to merge or forget
//     everything recorded since a checkpoint, and Rollback to unwind an open
//     task when a multi-step operation fails partway.
//
// Example:
//
//	stack := actionstack.NewStack()
//	if _, err := stack.BeginTask("Undo Typing", "Redo Typing"); err != nil {
//	    return err
//	}
//	stack.AddAction(insert)
//	stack.EndTask()
//
//	if res := stack.Undo(ctx); res.Failed() {
//	    return res.Reason()
//	}
package actionstack
