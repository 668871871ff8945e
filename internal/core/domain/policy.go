package domain

// Owned is implemented by every resource that has a single author.
type Owned interface {
	Owner() int64
}

// CanWrite reports whether caller may update or delete r. A nil caller is
// anonymous and may never write.
func CanWrite(caller *User, r Owned) bool {
	return caller != nil && caller.ID == r.Owner()
}

// Authorize returns ErrUnauthenticated for anonymous callers and ErrForbidden
// for authenticated callers that do not own r.
func Authorize(caller *User, r Owned) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if !CanWrite(caller, r) {
		return ErrForbidden
	}
	return nil
}

// RequireCaller rejects anonymous callers on operations that create data.
func RequireCaller(caller *User) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	return nil
}
