package kernel

// Error describes an error detected by one of the kernel subsystems. Kernel
// errors must be declared as global variables pointing to an Error value; the
// Go allocator may not be available when an error needs to be reported so
// errors.New cannot be used.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
