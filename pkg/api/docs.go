// Package api provides REST API handlers for ChainDecoder
// @title ChainDecoder API
// @version 1.0
// @description REST API for decoding EVM event logs against configured contract ABIs
// @contact.name API Support
// @contact.url https://github.com/goran-ethernal/ChainDecoder
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @basePath /api/v1
// @schemes http https
package api
