package cart

// ErrorKind enumerates the ways a cart action can fail. Action handlers
// branch on the kind, not on message text.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorNoCartSession
	ErrorProductNotFound
	ErrorCartNotFound
	ErrorItemNotFound
	ErrorNotEnoughStock
	ErrorConflict
	ErrorInvalidInput
	ErrorInternal
)

// ActionResult is the structured outcome of a cart action. No error escapes
// an action; failures are folded into a result with Success=false.
type ActionResult struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"-"`
}

func ok(message string) ActionResult {
	return ActionResult{Success: true, Message: message}
}

func fail(kind ErrorKind, message string) ActionResult {
	return ActionResult{Success: false, Message: message, Kind: kind}
}
