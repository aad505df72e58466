// Package exclusion keeps IDE "exclude from explorer" settings in step with
// hidden targets.
//
// Two editors are provided. JSONEditor edits the files.exclude map of VS
// Code style settings.json files, which may contain comments and trailing
// commas; edits go through the hujson syntax tree so untouched keys keep
// their comments, ordering and indentation. JetBrainsEditor edits the
// excludeFolder elements of an IntelliJ module (.iml) file.
//
// All editors are idempotent: adding a present pattern or removing an absent
// one reports no change and performs no write.
package exclusion
