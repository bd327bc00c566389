// Package dev implements development-mode conveniences for the brook CLI:
// recursive file watching and a WebSocket channel that tells connected
// browsers to reload.
package dev
