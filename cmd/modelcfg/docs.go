package main

// General API documentation for swaggo. Regenerate with `swag init -g cmd/modelcfg/docs.go -o docs`.
//
// @title           modelcfg API
// @version         1.0
// @description     Model family descriptors, prompt formatting and quantisation config selection.
//
// @contact.name   modelcfg maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
