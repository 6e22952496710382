package videotoken

import (
	"bytes"
	"html/template"
)

var playerPage = template.Must(template.New("player").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0, user-scalable=no">
  <title>Secure Video Player</title>
  <style>
    html, body { margin: 0; padding: 0; height: 100%; overflow: hidden; background: #000; font-family: Arial, sans-serif; }
    .video-wrapper { position: relative; width: 100%; height: 100%; }
    #youtube-player { width: 100%; height: 100%; border: none; }
    .click-blocker { position: absolute; top: 0; left: 0; right: 0; bottom: 0; z-index: 10; background: transparent; }
    .watermark { position: fixed; top: 0; left: 0; width: 100%; background: rgba(0,0,0,0.7); color: #fff;
                 text-align: center; padding: 5px; font-size: 12px; z-index: 1000; }
  </style>
  <script>
    document.addEventListener('contextmenu', function (e) { e.preventDefault(); });
    var player;
    function onYouTubeIframeAPIReady() {
      player = new YT.Player('youtube-player', {
        height: '100%',
        width: '100%',
        videoId: {{.VideoID}},
        playerVars: { autoplay: 1, controls: 0, disablekb: 1, fs: 0, modestbranding: 1, rel: 0, iv_load_policy: 3 },
        events: { onReady: function (e) { e.target.playVideo(); } }
      });
    }
    document.addEventListener('click', function () {
      if (!player) return;
      if (player.getPlayerState() === 1) { player.pauseVideo(); } else { player.playVideo(); }
    });
  </script>
  <script src="https://www.youtube.com/iframe_api"></script>
</head>
<body>
  <div class="watermark">Licensed to: {{.Viewer}} | This video is for educational purposes only. Unauthorized distribution is prohibited.</div>
  <div class="video-wrapper">
    <div id="youtube-player"></div>
    <div class="click-blocker"></div>
  </div>
</body>
</html>
`))

type pageData struct {
	VideoID string
	Viewer  string
}

func renderPage(videoID, viewer string) ([]byte, error) {
	var buf bytes.Buffer
	if err := playerPage.Execute(&buf, pageData{VideoID: videoID, Viewer: viewer}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
