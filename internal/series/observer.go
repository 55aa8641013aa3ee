package series

// subscription pairs a listener with a stable id so unsubscribe survives
// removals of other listeners.
type subscription struct {
	id int
	fn func()
}

// Subscribe registers fn to be invoked synchronously after every mutating
// call, once the Store is fully consistent. The returned function removes
// the listener; calling it more than once is harmless.
func (s *Store) Subscribe(fn func()) func() {
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// notify invokes every listener. The list is copied first so a listener may
// unsubscribe (itself or others) mid-notification.
func (s *Store) notify() {
	if len(s.subs) == 0 {
		return
	}
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	for _, sub := range subs {
		sub.fn()
	}
}
