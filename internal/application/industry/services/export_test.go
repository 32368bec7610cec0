package services

// SplitDemand exposes the work-list walk to external tests
var SplitDemand = splitDemand

// AssignDepths exposes depth layering to external tests
var AssignDepths = assignDepths
