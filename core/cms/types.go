// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cms

// PageID identifies a page in the CMS.
type PageID int

// NavItemType tags a top-level navigation item.
type NavItemType string

const (
	NavItemLink     NavItemType = "link"
	NavItemDropdown NavItemType = "dropdown"
)

// DropdownSource tells where a dropdown's entries come from.
type DropdownSource string

const (
	// DropdownStatic dropdowns list their entries inline in Children.
	DropdownStatic DropdownSource = "static"
	// DropdownChildren dropdowns list the child pages of ParentPage.
	DropdownChildren DropdownSource = "children"
)

// LinkType tells how a link's target is given.
type LinkType string

const (
	LinkCustom   LinkType = "custom"
	LinkInternal LinkType = "internal"
)

// NavLink is a labelled link as configured in the CMS.
//
// Href is resolved by the client: the custom URL, or the localized pathname of
// the referenced page. It is empty when the target cannot be resolved.
type NavLink struct {
	Label       string   `json:"label"`
	LinkType    LinkType `json:"linkType"`
	URL         string   `json:"url"`
	Page        *PageRef `json:"page"`
	NewTab      bool     `json:"newTab"`
	Description *string  `json:"description"`
	Icon        *string  `json:"icon"`
	Href        string   `json:"-"`
}

// NavItem is a top-level navigation entry: a link or a dropdown.
type NavItem struct {
	ID    string      `json:"id"`
	Type  NavItemType `json:"type"`
	Label string      `json:"label"`

	// Link items.
	LinkType LinkType `json:"linkType"`
	URL      string   `json:"url"`
	Page     *PageRef `json:"page"`
	NewTab   bool     `json:"newTab"`
	Href     string   `json:"-"`

	// Dropdown items.
	DropdownSource DropdownSource `json:"dropdownSource"`
	ParentPage     *PageRef       `json:"parentPage"`
	Children       []NavLink      `json:"children"`
}

// Navigation is the navigation global.
type Navigation struct {
	Items []NavItem `json:"items"`
	Style string    `json:"style"`
}

// FooterColumn is one titled group of footer links.
type FooterColumn struct {
	Title string    `json:"title"`
	Links []NavLink `json:"links"`
}

// SocialLink points to one of the site's social profiles.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Footer is the footer global.
type Footer struct {
	Columns   []FooterColumn `json:"columns"`
	Copyright string         `json:"copyright"`
	Social    []SocialLink   `json:"social"`
}

// FooterPage is a page flagged to appear in the footer.
type FooterPage struct {
	ID       PageID `json:"id"`
	Title    string `json:"title"`
	Pathname string `json:"pathname"`
}

// Theme is the theme global.
type Theme struct {
	Colors                 OptionalStrMap[string] `json:"colors"`
	DefaultNavigationStyle string                 `json:"defaultNavigationStyle"`
	BorderRadius           string                 `json:"borderRadius"`
	FontFamily             string                 `json:"fontFamily"`
}

// Language is one entry of the languages collection.
type Language struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	NativeLabel string `json:"nativeLabel"`
}

// Languages wraps the languages collection.
type Languages struct {
	Languages []Language `json:"languages"`
}

// Media is an uploaded asset.
type Media struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SiteSettings is the site-settings global.
type SiteSettings struct {
	SiteName     string       `json:"siteName"`
	Tagline      string       `json:"tagline"`
	Logo         *Media       `json:"logo"`
	Favicon      *Media       `json:"favicon"`
	ContactEmail string       `json:"contactEmail"`
	ContactPhone string       `json:"contactPhone"`
	Address      string       `json:"address"`
	Social       []SocialLink `json:"social"`
}

// NavigationStrings are the CMS-editable labels of the navigation bar.
type NavigationStrings struct {
	OpenMenu      string `json:"openMenu"`
	CloseMenu     string `json:"closeMenu"`
	LanguageLabel string `json:"languageLabel"`
	SkipToContent string `json:"skipToContent"`
}

// FooterStrings are the CMS-editable labels of the footer.
type FooterStrings struct {
	ContactHeading string `json:"contactHeading"`
	PagesHeading   string `json:"pagesHeading"`
	FollowUs       string `json:"followUs"`
	RightsReserved string `json:"rightsReserved"`
}

// UIStrings is the ui-strings global.
type UIStrings struct {
	Navigation    NavigationStrings `json:"navigation"`
	FooterStrings FooterStrings     `json:"footerStrings"`
}

// ServiceData is the optional service payload of a page.
// Fields not listed here are ignored.
type ServiceData struct {
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

// Breadcrumb is one ancestor entry maintained by the CMS nested-docs plugin.
type Breadcrumb struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// PageMeta holds SEO overrides.
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ContentFormat tells how Page.Content is encoded.
type ContentFormat string

const (
	ContentHTML     ContentFormat = "html"
	ContentMarkdown ContentFormat = "markdown"
)

// Page is a full page document.
type Page struct {
	ID            PageID        `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Template      string        `json:"template"`
	Content       string        `json:"content"`
	ContentFormat ContentFormat `json:"contentFormat"`
	Meta          *PageMeta     `json:"meta"`
	ServiceData   *ServiceData  `json:"serviceData"`
	Breadcrumbs   []Breadcrumb  `json:"breadcrumbs"`
	Parent        *PageRef      `json:"parent"`
	Pathname      string        `json:"-"`
}

// ChildPage is a page listed under a parent page.
type ChildPage struct {
	ID          PageID       `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	ServiceData *ServiceData `json:"serviceData"`
	Pathname    string       `json:"-"`
}

// PageSummary is the minimal page projection used for listings.
type PageSummary struct {
	ID          PageID       `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	Pathname    string       `json:"-"`
}
