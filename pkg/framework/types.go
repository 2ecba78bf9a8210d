package framework

import (
	"context"
	"time"
)

// Runnable is a background worker bound to a context.
type Runnable interface {
	Run(context.Context) error
}

// Message is anything posted into a Loop.
type Message interface {
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
}

// Controller runs once per loop iteration at its priority level.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// ControlContext is the view a Controller has of the current iteration.
type ControlContext interface {
	Context() context.Context
	// Time is when the iteration started.
	Time() time.Time
	PriorityLevel() int
	// Messages holds the messages posted before the iteration started and
	// not yet taken by a controller of a higher priority.
	Messages() MessageStore
	// PostRun installs one-shot hooks running after the controllers of the
	// current priority level. Hooks installed by a hook run in the next
	// iteration.
	PostRun(hooks ...Controller)

	LoopControl
}

// LoopControl is what Runnables of a loop use to talk to its controllers.
type LoopControl interface {
	// PostMessage queues msg for the next iteration.
	PostMessage(Message)
	// TriggerNext starts the next iteration without waiting for the tick.
	TriggerNext()
}

// PriorityLevels is the number of priority levels of a Loop.
const PriorityLevels int = 8

// Priority levels, lower runs first.
const (
	PrLvTop    int = 0
	PrLvHigh   int = 2
	PrLvNormal int = 4
	PrLvLow    int = 6
	PrLvIdle   int = PriorityLevels - 1

	// PrLvSense drains inputs, e.g. received frames.
	PrLvSense = PrLvHigh
	// PrLvControl handles commands.
	PrLvControl = PrLvNormal
	// PrLvAcuate drives outputs, e.g. starts the next frame.
	PrLvAcuate = PrLvLow
)

// MessageStore gives controllers access to pending messages.
type MessageStore interface {
	ProcessMessages(MessageProcessor)
}

// MessageProcessor visits messages of a MessageStore.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext is the message being visited.
type MessageProcessingContext interface {
	CurrentMessage() Message
	// MessageTaken removes the message so lower priorities won't see it.
	MessageTaken()
	// StopProcessing skips the remaining messages.
	StopProcessing()
}
