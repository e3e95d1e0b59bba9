package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every feature handler so the application can
// mount them on a shared router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
