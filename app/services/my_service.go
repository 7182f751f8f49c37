// Package services holds the application's capabilities and their
// implementations.
package services

// Greeting is the value MyService.GetData returns.
const Greeting = "Hello, World!"

// MyService is the placeholder capability the host exposes.
type MyService interface {
	GetData() string
}

// Not zero-sized, so every instance has a distinct address.
type myService struct {
	greeting string
}

// NewMyService returns the default MyService.
func NewMyService() MyService { return &myService{greeting: Greeting} }

func (s *myService) GetData() string { return s.greeting }
