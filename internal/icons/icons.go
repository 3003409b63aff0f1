package icons

import "sort"

// FallbackKey names the icon used for keys with no table entry.
const FallbackKey = "info"

const assetBase = "https://win98icons.alexmeub.com/icons/png/"

// Icon is a display icon: a terminal glyph plus the artwork URL used by graphical hosts.
type Icon struct {
	Key   string `json:"key" yaml:"key"`
	Glyph string `json:"glyph" yaml:"glyph"`
	URL   string `json:"url" yaml:"url"`
}

// table maps application identifiers and content-marker keys to icons.
var table = map[string]Icon{
	// Applications
	"splashScreen":  {Glyph: "🖥", URL: assetBase + "computer_explorer_cool-5.png"},
	"prdIntro":      {Glyph: "📘", URL: assetBase + "help_book_computer-1.png"},
	"vision":        {Glyph: "📝", URL: "https://storage.googleapis.com/gemini-95-icons/GemNotes.png"},
	"productVision": {Glyph: "🌍", URL: assetBase + "world-1.png"},
	"users":         {Glyph: "👥", URL: assetBase + "user_world-1.png"},
	"journeys":      {Glyph: "🗂", URL: assetBase + "windows_explorer_file_list-4.png"},
	"features":      {Glyph: "🔨", URL: assetBase + "application_hammer-1.png"},
	"technology":    {Glyph: "💾", URL: assetBase + "chip_card_reader-1.png"},
	"design":        {Glyph: "🎨", URL: "https://storage.googleapis.com/gemini-95-icons/gempaint.png"},
	"content":       {Glyph: "📝", URL: "https://storage.googleapis.com/gemini-95-icons/GemNotes.png"},
	"privacy":       {Glyph: "🔑", URL: assetBase + "keys-4.png"},
	"impact":        {Glyph: "📈", URL: assetBase + "graph_stock_field_up-0.png"},
	"roadmap":       {Glyph: "📅", URL: assetBase + "timetable-1.png"},
	"risks":         {Glyph: "⚠", URL: assetBase + "warning-0.png"},
	"future":        {Glyph: "🌐", URL: assetBase + "web_file_set_globe-0.png"},
	"appendices":    {Glyph: "📄", URL: assetBase + "template_empty-2.png"},
	"shutdown":      {Glyph: "⏻", URL: assetBase + "shut_down_cool-5.png"},

	// Content markers
	"info":          {Glyph: "ℹ", URL: assetBase + "msg_information-0.png"},
	"check":         {Glyph: "✔", URL: assetBase + "check-0.png"},
	"summary":       {Glyph: "📄", URL: assetBase + "template_empty-4.png"},
	"mission":       {Glyph: "🌍", URL: assetBase + "world-1.png"},
	"problems":      {Glyph: "🔍", URL: assetBase + "search_computer-1.png"},
	"target":        {Glyph: "📇", URL: assetBase + "address_book_users-0.png"},
	"persona":       {Glyph: "🪪", URL: assetBase + "user_card-1.png"},
	"personaHP":     {Glyph: "🩺", URL: assetBase + "doctor-0.png"},
	"compass":       {Glyph: "🧭", URL: assetBase + "world_locations-1.png"},
	"timeline":      {Glyph: "⏰", URL: assetBase + "calendar_clock-0.png"},
	"network":       {Glyph: "🖧", URL: assetBase + "network_normal_two_pcs-4.png"},
	"knowledge":     {Glyph: "📃", URL: assetBase + "document-1.png"},
	"architecture":  {Glyph: "🏗", URL: assetBase + "network_internet_schedule_time-3.png"},
	"data":          {Glyph: "💾", URL: assetBase + "storage_drive_floppy_3_half-0.png"},
	"integration":   {Glyph: "🔌", URL: assetBase + "connection_network_augmented_reality-0.png"},
	"security":      {Glyph: "🔐", URL: assetBase + "key_security-1.png"},
	"philosophy":    {Glyph: "🎨", URL: assetBase + "color_profile-1.png"},
	"components":    {Glyph: "🪟", URL: assetBase + "window_layout_wizards-0.png"},
	"mobile":        {Glyph: "📱", URL: assetBase + "cell_phone-0.png"},
	"accessibility": {Glyph: "♿", URL: assetBase + "accessibility-0.png"},
	"contentTypes":  {Glyph: "📄", URL: assetBase + "wordpad_document-0.png"},
	"standards":     {Glyph: "📋", URL: assetBase + "certificate_checklist-0.png"},
	"visuals":       {Glyph: "🖼", URL: assetBase + "pictures-1.png"},
	"localisation":  {Glyph: "🗺", URL: assetBase + "world_phonelink-1.png"},
	"principles":    {Glyph: "🛡", URL: assetBase + "policy_users_lock_id_card-1.png"},
	"handling":      {Glyph: "🔒", URL: assetBase + "storage_secure-4.png"},
	"governance":    {Glyph: "🗝", URL: assetBase + "users_key-4.png"},
	"metrics":       {Glyph: "📊", URL: assetBase + "chart_bar-0.png"},
	"analyticsImpl": {Glyph: "⚙", URL: assetBase + "processor-1.png"},
	"improvement":   {Glyph: "🔧", URL: assetBase + "settings_gear-1.png"},
	"devApproach":   {Glyph: "🛠", URL: assetBase + "channel_protocol_users_network_tools-1.png"},
	"mvp":           {Glyph: "🧩", URL: assetBase + "layout_section_split_emphasize-1.png"},
	"rollout":       {Glyph: "🛰", URL: assetBase + "world_network_satellite_update-1.png"},
	"clinicalRisk":  {Glyph: "🏥", URL: assetBase + "medical_record-1.png"},
	"culturalRisk":  {Glyph: "🤝", URL: assetBase + "users_relations-1.png"},
	"techRisk":      {Glyph: "🖳", URL: assetBase + "computer_explorer_executable_gear-0.png"},
	"businessRisk":  {Glyph: "💼", URL: assetBase + "briefcase-0.png"},
	"evolution":     {Glyph: "🧬", URL: assetBase + "graphic_layers-1.png"},
	"innovation":    {Glyph: "💡", URL: assetBase + "light_bulb_idea-1.png"},
	"impactVision":  {Glyph: "🌐", URL: assetBase + "world_network-4.png"},
	"glossary":      {Glyph: "📖", URL: assetBase + "dictionary-1.png"},
	"evidence":      {Glyph: "📜", URL: assetBase + "certificate_envelope-2.png"},
	"ethics":        {Glyph: "⚖", URL: assetBase + "user_properties-0.png"},
	"api":           {Glyph: "🧱", URL: assetBase + "component_plugin-4.png"},
	"compliance":    {Glyph: "🗎", URL: assetBase + "file_lines-0.png"},
}

// Lookup returns the icon for key, or the fallback icon when key is unmapped.
// The returned Icon always carries the requested key.
func Lookup(key string) Icon {
	icon, ok := table[key]
	if !ok {
		icon = table[FallbackKey]
	}
	icon.Key = key
	return icon
}

// Has reports whether key has its own table entry.
func Has(key string) bool {
	_, ok := table[key]
	return ok
}

// Keys returns every mapped key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
