package core

// Entity is an opaque identifier; 0 is never allocated
type Entity uint64

// NoEntity marks an absent entity reference
const NoEntity Entity = 0
