/*
Package iosched implements a block device request scheduling library in
pure Go. Requests queue up per device and coalesce with adjacent
neighbors while they wait. A pluggable elevator picks what the device
sees next; the greedy elevator always takes the pending request nearest
to where the last dispatch ended.
*/
package iosched
