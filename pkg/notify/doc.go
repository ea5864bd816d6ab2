// Package notify implements the notification display collaborator: short
// success/error/info messages that expire on their own after a fixed delay
// and can be dismissed by the user before that.
package notify
