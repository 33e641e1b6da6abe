package publisher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/entrhq/adpilot/pkg/logging"
	"github.com/entrhq/adpilot/pkg/progress"
	"github.com/entrhq/adpilot/pkg/types"
)

const (
	landingURL = "https://www.encuentra24.com/"

	// Timeouts in milliseconds, per operation. Navigation and the
	// upload confirmation are the slowest stages.
	navigateTimeout     = 60000.0
	consentShowTimeout  = 5000.0
	consentHideTimeout  = 3000.0
	emailFieldTimeout   = 10000.0
	passFieldTimeout    = 12000.0
	loginRaceTimeout    = 30000.0
	uploadAttachTimeout = 15000.0
	uploadDoneTimeout   = 60000.0
)

// Form selectors on the target site. The site's DOM is an external,
// versioned contract; these break when it changes.
const (
	selLoginLink     = "a[href='/login']"
	selLoginEmail    = "input#login_email"
	selLoginPassword = "input#login_password"
	selErrorBanner   = ".alert-danger"
	selPublishLink   = `a[href*="/publish"]`
	selContinue      = "input[value='Continuar']"
	selMyLocation    = "#map > div.my_location"
	selRegionConfirm = "#regionform > div > div.col-md-3.col-sm-3 > button"
	selTitle         = "#cnad_v_title"
	selDescription   = "#cnad_v_descr"
	selCurrency      = "#cnad_v_currency"
	selPrice         = "#cnad_d_price"
	selBedrooms      = "#cnad_v_255_4"
	selBathrooms     = "#cnad_v_255_5"
	selParking       = "#cnad_v_255_23"
	selBuiltArea     = "#cnad_v_255_7_value"
	selBuiltAreaUnit = "#cnad_v_255_7_unit"
	selAdvertiser    = "#cnad_v_255_13"
	selPhotoSlot     = "li.image-available"
	selUploadFrame   = `iframe[data-test="uw-iframe"]`
	selUploadInput   = "input[type='file']"
	selUploadDone    = `button[data-test="queue-done"]`
	selPhotoUploaded = "li.image-uploaded"
	selFinalSubmit   = "body > div.container.ann-mpublish > div.row.stepscroll.step3.active > div.col-md-11.col-sm-11.step > div.step-container > div > div.col-md-4.col-sm-4 > button"

	selConsentRoot = ".fc-consent-root"
)

// consentAcceptSelectors are tried in order against a visible consent
// overlay; the first visible control wins.
var consentAcceptSelectors = []string{
	"button.fc-cta-consent.fc-primary-button",
	`button:has-text("Aceptar")`,
	`button:has-text("Aceptar todo")`,
	`button:has-text("Accept")`,
	`button:has-text("Accept all")`,
}

// Pipeline drives one isolated session through the site's publication
// workflow: Navigate, CookieConsent, Login, CategorySelect, DetailsForm,
// PhotoUpload, Submit. Steps run strictly forward; the first error aborts
// the attempt and there is no step-local recovery.
type Pipeline struct {
	listing  types.Listing
	photos   []types.Photo
	reporter progress.Reporter
}

// NewPipeline creates a pipeline for one publication request.
func NewPipeline(listing types.Listing, photos []types.Photo, reporter progress.Reporter) *Pipeline {
	return &Pipeline{listing: listing, photos: photos, reporter: reporter}
}

// Run executes the whole workflow against the given page.
func (p *Pipeline) Run(page playwright.Page) error {
	if err := p.navigate(page); err != nil {
		return err
	}
	p.handleConsent(page)
	if err := p.login(page); err != nil {
		return err
	}
	if err := p.startPublication(page); err != nil {
		return err
	}
	if err := p.selectCategory(page); err != nil {
		return err
	}
	if err := p.fillDetails(page); err != nil {
		return err
	}
	if err := p.uploadPhotos(page); err != nil {
		return err
	}
	return p.submit(page)
}

// navigate loads the landing page. DOM-ready is the success criterion;
// waiting for the full load event is too flaky behind the interception.
func (p *Pipeline) navigate(page playwright.Page) error {
	p.reporter.Report("contacting the site", 20)

	_, err := page.Goto(landingURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(navigateTimeout),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// handleConsent dismisses the cookie overlay if it shows up. Best-effort:
// nothing here may abort the pipeline.
func (p *Pipeline) handleConsent(page playwright.Page) {
	root := page.Locator(selConsentRoot)
	if err := root.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(consentShowTimeout),
	}); err != nil {
		logging.Debug("no consent overlay detected")
		return
	}

	for _, sel := range consentAcceptSelectors {
		btn := page.Locator(sel).First()
		visible, err := btn.IsVisible()
		if err != nil || !visible {
			continue
		}
		if err := btn.Click(); err != nil {
			logging.Debug("consent accept click failed", zap.String("selector", sel), zap.Error(err))
			continue
		}
		if err := root.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateHidden,
			Timeout: playwright.Float(consentHideTimeout),
		}); err != nil {
			logging.Warn("consent overlay did not hide after accept", zap.Error(err))
		}
		return
	}

	logging.Warn("consent overlay visible but no accept control matched")
}

// login authenticates using the payload's contact fields as the site
// login identity, submits with the keyboard and races the authenticated
// redirect against an error banner.
func (p *Pipeline) login(page playwright.Page) error {
	p.reporter.Report("opening login", 30)

	if err := page.Locator(selLoginLink).First().Click(playwright.LocatorClickOptions{
		Force: playwright.Bool(true),
	}); err != nil {
		return fmt.Errorf("failed to open login: %w", err)
	}

	p.reporter.Report("entering credentials", 40)

	email := page.Locator(selLoginEmail)
	if err := email.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(emailFieldTimeout),
	}); err != nil {
		return fmt.Errorf("login field never became visible: %w", err)
	}
	if err := email.Fill(p.listing.ContactName); err != nil {
		return fmt.Errorf("failed to fill login field: %w", err)
	}

	pass := page.Locator(selLoginPassword)
	if err := pass.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(passFieldTimeout),
	}); err != nil {
		return fmt.Errorf("password field never became visible: %w", err)
	}
	if err := pass.Fill(p.listing.ContactPhone); err != nil {
		return fmt.Errorf("failed to fill password field: %w", err)
	}

	if err := page.Keyboard().Press("Enter"); err != nil {
		return fmt.Errorf("failed to submit login: %w", err)
	}

	p.reporter.Report("verifying login", 70)

	// Race the authenticated redirect against the error banner; both
	// waits share the same bound, so a double timeout just falls
	// through to the decision below.
	settled := make(chan struct{}, 2)
	go func() {
		_ = page.WaitForURL("**/account", playwright.PageWaitForURLOptions{
			WaitUntil: playwright.WaitUntilStateCommit,
			Timeout:   playwright.Float(loginRaceTimeout),
		})
		settled <- struct{}{}
	}()
	go func() {
		_ = page.Locator(selErrorBanner).WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(loginRaceTimeout),
		})
		settled <- struct{}{}
	}()
	<-settled

	if strings.Contains(page.URL(), "/account") {
		p.reporter.Report("login successful, opening panel", 60)
		return nil
	}

	banner := page.Locator(selErrorBanner)
	if visible, _ := banner.IsVisible(); visible {
		text, _ := banner.InnerText()
		return fmt.Errorf("login rejected: %s", strings.TrimSpace(text))
	}

	return ErrLoginUnconfirmed
}

func (p *Pipeline) startPublication(page playwright.Page) error {
	if err := page.Locator(selPublishLink).First().Click(playwright.LocatorClickOptions{
		Force: playwright.Bool(true),
	}); err != nil {
		return fmt.Errorf("failed to open publication flow: %w", err)
	}

	p.reporter.Report("starting publication flow", 75)
	return nil
}

// selectCategory picks the fixed top category, the operation-specific
// listing type and the payload-mapped subcategory, then moves to the
// location step.
func (p *Pipeline) selectCategory(page playwright.Page) error {
	label, err := categoryLabel(p.listing.Category)
	if err != nil {
		return err
	}

	opPath := operationPath(p.listing.Operation)

	for _, value := range []string{topCategory, opPath, opPath + "-" + label} {
		sel := fmt.Sprintf("li[data-value='%s']", value)
		if err := page.Locator(sel).Click(); err != nil {
			return fmt.Errorf("failed to select category %q: %w", value, err)
		}
	}

	if err := page.Locator(selContinue).Click(); err != nil {
		return fmt.Errorf("failed to continue past categories: %w", err)
	}

	if err := page.Locator(selMyLocation).Click(); err != nil {
		return fmt.Errorf("failed to pick map location: %w", err)
	}
	if err := page.Locator(selRegionConfirm).Click(); err != nil {
		return fmt.Errorf("failed to confirm region: %w", err)
	}

	return nil
}

// fillDetails fills the listing form. Optional fields absent from the
// payload are skipped, never defaulted; values above the site caps are
// clamped to its sentinel values.
func (p *Pipeline) fillDetails(page playwright.Page) error {
	l := p.listing

	if err := page.Locator(selTitle).Fill(l.Title); err != nil {
		return fmt.Errorf("failed to fill title: %w", err)
	}
	if err := page.Locator(selDescription).Fill(l.Description); err != nil {
		return fmt.Errorf("failed to fill description: %w", err)
	}

	if err := selectValue(page, selCurrency, string(l.Currency)); err != nil {
		return fmt.Errorf("failed to select currency: %w", err)
	}
	if err := page.Locator(selPrice).Fill(priceValue(l.Price)); err != nil {
		return fmt.Errorf("failed to fill price: %w", err)
	}

	if l.Bedrooms != nil {
		if err := selectValue(page, selBedrooms, bedroomsValue(*l.Bedrooms)); err != nil {
			return fmt.Errorf("failed to select bedrooms: %w", err)
		}
	}
	if l.Bathrooms != nil {
		if err := selectValue(page, selBathrooms, bathroomsValue(*l.Bathrooms)); err != nil {
			return fmt.Errorf("failed to select bathrooms: %w", err)
		}
	}
	if l.ParkingSpaces != nil {
		if err := selectValue(page, selParking, parkingValue(*l.ParkingSpaces)); err != nil {
			return fmt.Errorf("failed to select parking: %w", err)
		}
	}
	if l.BuiltArea != nil {
		if err := page.Locator(selBuiltArea).Fill(areaValue(*l.BuiltArea)); err != nil {
			return fmt.Errorf("failed to fill built area: %w", err)
		}
		// "1" is the site's value for square meters.
		if err := selectValue(page, selBuiltAreaUnit, "1"); err != nil {
			return fmt.Errorf("failed to select built area unit: %w", err)
		}
	}

	// Advertiser type is mandatory on the form; owner is the default
	// that passes validation.
	if err := selectValue(page, selAdvertiser, "Propietario"); err != nil {
		return fmt.Errorf("failed to select advertiser type: %w", err)
	}

	return nil
}

// uploadPhotos drives the third-party upload widget embedded in a frame:
// inject all files into its hidden input, confirm, and wait for the host
// page to reflect at least one uploaded image. Upload plus transcode is
// the slowest stage, hence the long confirmation bound. Any failure here
// surfaces as the distinct upload error.
func (p *Pipeline) uploadPhotos(page playwright.Page) error {
	p.reporter.Report("opening the image upload portal", 80)

	if err := p.driveUploadWidget(page); err != nil {
		logging.Warn("photo upload failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return nil
}

func (p *Pipeline) driveUploadWidget(page playwright.Page) error {
	if err := page.Locator(selPhotoSlot).First().Click(); err != nil {
		return fmt.Errorf("failed to open upload widget: %w", err)
	}

	frame := page.FrameLocator(selUploadFrame)
	input := frame.Locator(selUploadInput)
	if err := input.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(uploadAttachTimeout),
	}); err != nil {
		return fmt.Errorf("upload input never attached: %w", err)
	}

	files, err := uploadArguments(p.photos)
	if err != nil {
		return err
	}
	if err := input.SetInputFiles(files); err != nil {
		return fmt.Errorf("failed to inject files: %w", err)
	}

	p.reporter.Report("processing images in the cloud", 85)

	if err := frame.Locator(selUploadDone).DispatchEvent("click", nil); err != nil {
		return fmt.Errorf("failed to confirm upload: %w", err)
	}

	p.reporter.Report("syncing photos with the listing", 90)

	if err := page.Locator(selPhotoUploaded).First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(uploadDoneTimeout),
	}); err != nil {
		return fmt.Errorf("uploaded image indicator never appeared: %w", err)
	}

	return nil
}

func (p *Pipeline) submit(page playwright.Page) error {
	if err := page.Locator(selFinalSubmit).Click(); err != nil {
		return fmt.Errorf("failed to submit publication: %w", err)
	}
	return nil
}

func selectValue(page playwright.Page, selector, value string) error {
	_, err := page.Locator(selector).SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	})
	return err
}

// uploadArguments converts the request photos into the value accepted by
// SetInputFiles: plain paths when every photo is file-backed, otherwise
// in-memory payloads with path-backed photos read from disk.
func uploadArguments(photos []types.Photo) (interface{}, error) {
	inMemory := false
	for _, ph := range photos {
		if ph.InMemory() {
			inMemory = true
			break
		}
	}

	if !inMemory {
		paths := make([]string, 0, len(photos))
		for _, ph := range photos {
			paths = append(paths, ph.Path)
		}
		return paths, nil
	}

	files := make([]playwright.InputFile, 0, len(photos))
	for _, ph := range photos {
		if ph.InMemory() {
			files = append(files, playwright.InputFile{
				Name:     ph.Name,
				MimeType: ph.MimeType,
				Buffer:   ph.Data,
			})
			continue
		}
		data, err := os.ReadFile(ph.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read photo %s: %w", ph.Path, err)
		}
		files = append(files, playwright.InputFile{
			Name:     filepath.Base(ph.Path),
			MimeType: ph.MimeType,
			Buffer:   data,
		})
	}
	return files, nil
}
