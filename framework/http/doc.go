// Package http provides Laravel-style request and response helpers for
// handlers mounted on the framework router.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	var payload struct {
//	    Name string `json:"name"`
//	}
//	if err := req.Bind(&payload); err != nil { ... }
//
//	id   := req.RouteParam("id")
//	page := req.Query("page", "1")
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(user)                                   // 200 {"data": user}
//	res.Created(user)                                   // 201 {"data": user}
//	res.NotFound()                                      // 404 {"message": "Not found."}
//	res.ValidationError(map[string][]string{"email": {"The email field is required."}})
//	res.ResolutionError(err)                            // container failures
package http
