// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"io"
	"path/filepath"

	"emojioverlay/internal/app"
	"emojioverlay/internal/compositor"
	ovimage "emojioverlay/internal/image"
	"emojioverlay/internal/overlay"
	"emojioverlay/internal/version"
	"emojioverlay/ui/canvas"
	"emojioverlay/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "Emoji Overlay"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *app.Session
	prefs   *prefs.Prefs

	view      *canvas.SurfaceView
	emoji     *widget.Select
	size      *widget.Slider
	sizeLabel *widget.Label
	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, session *app.Session, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(fmt.Sprintf("%s v%s", appTitle, version.Version))

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		prefs:   p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreLastOverlay()
	mw.view.SetArtifact(session.Compositor.Artifact())

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	c := mw.session.Compositor
	ov := c.Overlay()

	title := widget.NewRichTextFromMarkdown("# " + appTitle)

	openBtn := widget.NewButton("Open Image...", mw.onOpenImage)
	downloadBtn := widget.NewButton("Download", mw.onDownload)

	opts := mw.session.Config.Overlay.Options
	mw.emoji = widget.NewSelect(overlay.Labels(opts), func(label string) {
		if opt, ok := overlay.FindByLabel(opts, label); ok {
			c.SetOverlayIdentity(opt.Value)
			mw.prefs.SetString(prefs.KeyLastOverlay, string(opt.Value))
		}
	})
	mw.emoji.SetSelected(labelFor(opts, ov.Identity))

	mw.sizeLabel = widget.NewLabel("")
	mw.size = widget.NewSlider(compositor.MinOverlaySize, float64(c.MaxSize()))
	mw.size.Step = 1
	mw.size.Value = float64(ov.Size)
	mw.size.OnChanged = func(v float64) {
		c.SetOverlaySize(int(v))
		mw.prefs.SetInt(prefs.KeyLastSize, int(v))
		mw.updateSizeLabel()
	}
	mw.updateSizeLabel()

	mw.view = canvas.NewSurfaceView(mw.session.Dragger)
	mw.statusBar = widget.NewLabel("Ready")

	controls := container.NewVBox(
		title,
		container.NewHBox(openBtn, downloadBtn),
		container.NewBorder(nil, nil, widget.NewLabel("Emoji:"), nil, mw.emoji),
		container.NewBorder(nil, nil, widget.NewLabel("Size:"), mw.sizeLabel, mw.size),
	)

	surfaceArea := container.New(&viewportLayout{compositor: c}, mw.view)

	content := container.NewBorder(
		controls,                          // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		container.NewScroll(surfaceArea),  // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(float32(compositor.MaxSurfaceWidth)+40, 640))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Download...", mw.onDownload),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// setupEventHandlers registers for compositor events.
func (mw *MainWindow) setupEventHandlers() {
	c := mw.session.Compositor

	c.On(compositor.EventRendered, func(data interface{}) {
		if art, ok := data.(compositor.Artifact); ok {
			mw.view.SetArtifact(art)
		}
	})

	c.On(compositor.EventImageLoaded, func(data interface{}) {
		// Size bound follows the image height; the value may have been re-clamped
		mw.size.Max = float64(c.MaxSize())
		mw.size.Value = float64(c.Overlay().Size)
		mw.size.Refresh()
		mw.updateSizeLabel()
		if img, ok := data.(*ovimage.BaseImage); ok {
			mw.updateStatus(fmt.Sprintf("Image loaded: %dx%d", img.Width(), img.Height()))
		}
	})

	c.On(compositor.EventOverlayFetched, func(data interface{}) {
		mw.updateStatus("Overlay ready")
	})

	c.On(compositor.EventFetchFailed, func(data interface{}) {
		if err, ok := data.(error); ok {
			mw.updateStatus("Overlay unavailable: " + err.Error())
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateSizeLabel() {
	mw.sizeLabel.SetText(fmt.Sprintf("%d px", mw.session.Compositor.Overlay().Size))
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDirectory)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDirectory, filepath.Dir(filePath))
}

// restoreLastOverlay reselects the overlay and size chosen in the previous run.
func (mw *MainWindow) restoreLastOverlay() {
	last := overlay.Identity(mw.prefs.String(prefs.KeyLastOverlay))
	if label := labelFor(mw.session.Config.Overlay.Options, last); label != "" {
		mw.emoji.SetSelected(label)
	}
	if size := mw.prefs.Int(prefs.KeyLastSize, 0); size > 0 {
		mw.size.SetValue(float64(size))
	}
}

// SavePreferences writes the preferences file.
func (mw *MainWindow) SavePreferences() error {
	return mw.prefs.Save()
}

// LoadImageFile reads path and loads it as the base image in the background.
func (mw *MainWindow) LoadImageFile(path string) {
	uri := storage.NewFileURI(path)
	r, err := storage.Reader(uri)
	if err != nil {
		mw.session.Logger.Warn("open image failed", "path", path, "error", err)
		mw.updateStatus("Cannot open " + filepath.Base(path))
		return
	}
	mw.loadFrom(r)
}

// loadFrom reads and closes r, then starts an async decode.
func (mw *MainWindow) loadFrom(r fyne.URIReadCloser) {
	defer r.Close()
	name := r.URI().Name()
	data, err := io.ReadAll(r)
	if err != nil {
		mw.session.Logger.Warn("read image failed", "name", name, "error", err)
		return
	}
	mw.updateStatus("Loading " + name + "...")
	mw.session.Compositor.LoadImageAsync(data, func(applied bool, err error) {
		if err != nil {
			// Undecodable input leaves the current image in place
			mw.session.Logger.Info("image not loaded", "name", name, "error", err)
			mw.updateStatus("Could not read " + name)
		}
	})
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		mw.saveLastDir(reader.URI().Path())
		mw.loadFrom(reader)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(ovimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onDownload() {
	art := mw.session.Compositor.Artifact()
	if art.Empty() {
		mw.updateStatus("Nothing to download yet")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		mw.saveLastDir(writer.URI().Path())
		if _, err := art.WriteTo(writer); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Saved " + writer.URI().Name())
	}, mw.Window)
	fd.SetFileName(art.Filename)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s %s\n\nPlace an emoji on a picture and save the result.",
			appTitle, version.String()),
		mw.Window)
}

// labelFor returns the picker label for id, or "".
func labelFor(opts []overlay.Option, id overlay.Identity) string {
	for _, o := range opts {
		if o.Value == id {
			return o.Label
		}
	}
	return ""
}
