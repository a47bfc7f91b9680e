// Package docs provides generated OpenAPI documentation.
//
// Navigator API
//
//	@title			Navigator API
//	@version		1.0
//	@description	School policy assistant: risk assessment, legal and head-of-school Q&A, solution modules, and the HR center.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/navigator/serve.go -o ./swagger --parseDependency --parseInternal
