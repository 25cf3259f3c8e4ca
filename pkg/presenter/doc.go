// Package presenter renders action outcomes and status changes for humans
// (Text) or machines (JSON).
package presenter
