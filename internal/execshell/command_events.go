package execshell

// CommandEventObserver is notified around every git or gh invocation.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process could not run at all, so no result exists.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// ObserverResolver returns the observer for the current event, or nil to drop it.
type ObserverResolver func() CommandEventObserver

// LazyCommandEventObserver asks its resolver for a delegate on every event. Commands are
// wired before configuration is loaded, so whether console output is wanted is only known
// once they run.
type LazyCommandEventObserver struct {
	resolve ObserverResolver
}

// NewLazyCommandEventObserver wraps resolve. A nil resolver drops every event.
func NewLazyCommandEventObserver(resolve ObserverResolver) *LazyCommandEventObserver {
	return &LazyCommandEventObserver{resolve: resolve}
}

// CommandStarted forwards to the resolved delegate.
func (observer *LazyCommandEventObserver) CommandStarted(command ShellCommand) {
	if delegate := observer.delegate(); delegate != nil {
		delegate.CommandStarted(command)
	}
}

// CommandCompleted forwards to the resolved delegate.
func (observer *LazyCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	if delegate := observer.delegate(); delegate != nil {
		delegate.CommandCompleted(command, result)
	}
}

// CommandExecutionFailed forwards to the resolved delegate.
func (observer *LazyCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	if delegate := observer.delegate(); delegate != nil {
		delegate.CommandExecutionFailed(command, failure)
	}
}

func (observer *LazyCommandEventObserver) delegate() CommandEventObserver {
	if observer == nil || observer.resolve == nil {
		return nil
	}
	return observer.resolve()
}
