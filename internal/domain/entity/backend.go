package entity

const (
	BackendSoup     = "soup"
	BackendSelenium = "selenium"

	BackendRod        = "rod"
	BackendChromedp   = "chromedp"
	BackendPlaywright = "playwright"
	BackendWebDriver  = "webdriver"
)
