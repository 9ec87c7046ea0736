// Package myflix provides a client for the myFlix movie catalogue API.
//
// The client wraps every catalogue and account endpoint behind a typed method
// and normalizes failures into a single error shape.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := myflix.NewClient(
//		"https://cp-movies-api-41b2d280c95b.herokuapp.com",
//		sessionManager,
//		logger,
//		myflix.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	movies, err := client.GetMovies(ctx)
//
// # Authentication
//
// Authenticated endpoints read the bearer token from the TokenSource given to
// NewClient on every request. The header is omitted when no token is
// available; the server then rejects the call.
//
// # Error Handling
//
// Every method returns an *OperationError on failure. Its message is the
// generic "something went wrong" text and it matches ErrOperationFailed:
//
//	if errors.Is(err, myflix.ErrOperationFailed) {
//		// show the generic notification
//	}
//
// The cause is still reachable for logging:
//
//	var opErr *myflix.OperationError
//	if errors.As(err, &opErr) && opErr.Kind == myflix.KindAuth {
//		// token missing or expired
//	}
package myflix
