package app

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Router dispatches instructions to programs by their identity.
type Router struct {
	routes map[common.PublicKey]tokenswap.Program
}

// NewRouter returns a router without any program registered.
func NewRouter() *Router {
	return &Router{
		routes: make(map[common.PublicKey]tokenswap.Program),
	}
}

// Register binds a program to given identity. Registering the same
// identity twice panics.
func (r *Router) Register(id common.PublicKey, p tokenswap.Program) {
	if _, ok := r.routes[id]; ok {
		panic(fmt.Sprintf("re-registering program %s", id.ToBase58()))
	}
	r.routes[id] = p
}

// Has returns true if a program is registered under given identity.
func (r *Router) Has(id common.PublicKey) bool {
	_, ok := r.routes[id]
	return ok
}

// Program returns the program registered under given identity.
func (r *Router) Program(id common.PublicKey) (tokenswap.Program, error) {
	p, ok := r.routes[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "no program %s", id.ToBase58())
	}
	return p, nil
}
