// Package ui is the GTK4/libadwaita front end: the status window with the
// location list, the system tray indicator, desktop notifications, and the
// generated tray icons.
package ui
