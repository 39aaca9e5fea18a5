package api

// Public pages
const (
	RouteHome     = "/"
	RouteAbout    = "/about"
	RouteHealth   = "/healthz"
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteLogout   = "/logout"
)

// Catalog pages
const (
	RouteSets        = "/lego/sets"
	RouteSet         = "/lego/sets/:setNum"
	RouteAddSet      = "/lego/addSet"
	RouteEditSet     = "/lego/editSet"
	RouteEditSetNum  = "/lego/editSet/:setNum"
	RouteDeleteSet   = "/lego/deleteSet/:setNum"
	RouteUserHistory = "/userHistory"
)

// ProtectedRoutes defines route patterns that need a logged-in session
var ProtectedRoutes = map[string]bool{
	RouteAddSet:      true,
	RouteEditSet:     true,
	RouteEditSetNum:  true,
	RouteDeleteSet:   true,
	RouteUserHistory: true,
}
