// Package server provides the HTTP server for the TMF673 Geographic
// Address Management API.
//
// This file contains general API documentation annotations for Swag/OpenAPI
// generation. These annotations describe the overall API while individual
// endpoint annotations live in the handler files.
package server

// @title Geographic Address Management API
// @version 4.0
// @description TMF673 Geographic Address Management REST API with a
// @description discovery entrypoint, resource change notifications via
// @description WebSocket and Server-Sent Events, and in-memory caching.
//
// @contact.name OpenODA
// @contact.url https://github.com/openoda/geoaddress
//
// @host localhost:8080
// @BasePath /tmf-api/geographicAddressManagement/v4
