package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/employee --output domain/employee --outpkg employeemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name EventPublisher --dir ../domain/employee --output domain/employee --outpkg employeemock --filename event_publisher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Storage --dir ../domain/asset --output domain/asset --outpkg assetmock --filename storage_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name CompletionNotifier --dir ../domain/asset --output domain/asset --outpkg assetmock --filename completion_notifier_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/attendance --output domain/attendance --outpkg attendancemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SessionStore --dir ../domain/onboarding --output domain/onboarding --outpkg onboardingmock --filename session_store_mock.go
